package params

import (
	"os"
	"sync"

	"github.com/inovacc/relic/internal/application"
)

var (
	once    sync.Once
	DataDir string
)

func init() {
	once.Do(getDataDir)
}

func getDataDir() {
	dir, err := application.GetDataDirectory()
	if err != nil {
		panic(err)
	}

	DataDir = dir

	if err := os.MkdirAll(DataDir, 0700); err != nil {
		panic(err)
	}
}
