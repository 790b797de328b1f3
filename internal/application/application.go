package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "relic"

	// Version is the application version, set at build time via ldflags
	Version = "0.3.0"
)

var (
	once    sync.Once
	dataDir string
	errDir  error
)

// GetDataDirectory returns the relic data directory path.
// Linux: $XDG_DATA_HOME/relic or ~/.local/share/relic
// Windows: C:\Users\{username}\AppData\Local\relic (via UserCacheDir)
func GetDataDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return dataDir, errDir
}

func lazyLoad() {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dataDir = filepath.Join(xdg, AppName)
		return
	}

	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		home, herr := os.UserHomeDir()
		if herr != nil {
			err = herr
			break
		}
		baseDir = filepath.Join(home, ".local", "share")
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get data directory: %w", err)
		return
	}

	dataDir = filepath.Join(baseDir, AppName)
}
