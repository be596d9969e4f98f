// Package store implements the local sqlite mirror of server data: the
// restaurants and reviews collections plus a small string-keyed kv table
// that backs the offline review queue.
//
// Restaurant and review writes are best-effort caching, not the system of
// record: failures are logged and reported to the optional write observer,
// never surfaced to callers. The kv table is the opposite: it is the
// durable home of queued reviews, so its writes return errors.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dinemap/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// WriteObserver receives the outcome of fail-silent writes. The default
// behavior (swallow and log) is unchanged; tests and callers that care can
// hook in.
type WriteObserver func(op string, err error)

// LocalStore is the process-wide handle to the sqlite database. Open it
// once and reuse it for the life of the process.
type LocalStore struct {
	db     *sql.DB
	dbPath string

	mu       sync.RWMutex
	observer WriteObserver
}

// Open opens (creating if needed) the database at the given path and brings
// its schema up to date. Opening an already-migrated database is a no-op
// beyond version verification.
func Open(path string) (*LocalStore, error) {
	logging.Store("Opening local store at %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetWriteObserver installs a callback invoked after every fail-silent
// write, successful or not. Pass nil to remove it.
func (s *LocalStore) SetWriteObserver(fn WriteObserver) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// reportWrite logs a failed fail-silent write and notifies the observer.
func (s *LocalStore) reportWrite(op string, err error) {
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("%s failed (write dropped): %v", op, err)
	}
	s.mu.RLock()
	observer := s.observer
	s.mu.RUnlock()
	if observer != nil {
		observer(op, err)
	}
}
