package store

import (
	"fmt"

	"dinemap/internal/logging"
)

// CurrentSchemaVersion is the version a fully migrated database reports via
// PRAGMA user_version.
//
// Schema versions:
// v1: restaurants collection keyed by id
// v2: reviews collection keyed by id, indexed by restaurant_id
// v3: kv table holding the durable offline-review list
const CurrentSchemaVersion = 3

// migration is one schema step. Steps apply strictly in version order from
// the stored version to the target; each is idempotent so a re-run never
// destroys existing collections or rows.
type migration struct {
	Version    int
	Statements []string
}

var migrations = []migration{
	{
		Version: 1,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS restaurants (
				id INTEGER PRIMARY KEY,
				payload TEXT NOT NULL,
				updated_at INTEGER NOT NULL DEFAULT 0
			)`,
		},
	},
	{
		Version: 2,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS reviews (
				id INTEGER PRIMARY KEY,
				restaurant_id INTEGER NOT NULL,
				payload TEXT NOT NULL,
				updated_at INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON reviews(restaurant_id)`,
		},
	},
	{
		Version: 3,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
		},
	},
}

// migrate applies pending schema migrations in order.
func (s *LocalStore) migrate() error {
	current, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if current > CurrentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, CurrentSchemaVersion)
	}
	if current == CurrentSchemaVersion {
		logging.StoreDebug("Schema already at version %d", current)
		return nil
	}

	logging.Store("Migrating schema from version %d to %d", current, CurrentSchemaVersion)
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		for _, stmt := range m.Statements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("migration to version %d failed: %w", m.Version, err)
			}
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
		}
		logging.Store("Applied schema migration v%d", m.Version)
	}
	return nil
}

func (s *LocalStore) schemaVersion() (int, error) {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
