// Package store defines the local persistence boundary for collected
// repository records and scan history.
package store

import (
	"path/filepath"
	"sync"

	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/params"
	"github.com/inovacc/relic/internal/store/sqlite"
)

// Store defines the database operations used by the app.
type Store interface {
	Ping() error
	Close() error

	// Upsert merges a batch of records in one transaction, deduplicating by
	// full name. presetID and scanID may be empty.
	Upsert(records []model.RepositoryRecord, presetID, scanID string) (model.UpsertResult, error)

	// RecordScan appends one scan-history row. Scan rows are immutable and
	// survive everything except a whole-database clear.
	RecordScan(scan model.ScanRecord) error
	Scans(limit int) ([]model.ScanRecord, error)

	Get(fullName string) (*model.RepositoryRecord, error)
	Query(filter model.StoreFilter) ([]model.RepositoryRecord, error)
	Stats() (*model.Stats, error)

	Clear(confirm bool) error
	ClearScans(confirm bool) error
	Compact() error

	Path() string
}

// ConfirmationRequiredError guards destructive operations.
type ConfirmationRequiredError = sqlite.ConfirmationRequiredError

// IOError wraps disk or engine failures from the storage backend.
type IOError = sqlite.IOError

var (
	once    sync.Once
	db      Store
	initErr error
)

// GetDB returns the process-wide store, opening the database file in the
// data directory on first use.
func GetDB() (Store, error) {
	once.Do(func() {
		db, initErr = Open(filepath.Join(params.DataDir, "relic.db"))
	})
	return db, initErr
}

// Open creates or opens a store at the given path, applying any pending
// schema migrations.
func Open(path string) (Store, error) {
	return sqlite.New(path)
}
