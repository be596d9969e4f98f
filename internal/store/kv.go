package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The kv table is the durable home of the offline review queue, so unlike
// the record collections its writes surface errors to the caller.

// GetValue reads a string value by key. ok is false when the key is absent.
func (s *LocalStore) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read kv %q: %w", key, err)
	}
	return value, true, nil
}

// PutValue writes a string value, replacing any previous value.
func (s *LocalStore) PutValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write kv %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes a key. Deleting an absent key is not an error.
func (s *LocalStore) DeleteValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete kv %q: %w", key, err)
	}
	return nil
}
