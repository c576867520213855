// Package storage persists the application's live state as four
// independent JSON documents in a single SQLite key-value table.
// Every write replaces a whole value; there are no incremental
// patches, so a crash mid-session can lose at most the last mutation.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// The four persisted state keys.
const (
	KeyWeeklyPlan   = "weekly_plan"
	KeyManualItems  = "manual_items"
	KeyCheckedItems = "checked_items"
	KeyHistory      = "history"
)

// StateStore reads and writes state documents in the app_state table.
type StateStore struct {
	db *sql.DB
}

// NewStateStore creates a StateStore over an existing connection.
func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the stored value for a key, or nil when the key was
// never written.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state key %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value under a single key.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write state key %s: %w", key, err)
	}
	return nil
}

// SetAll replaces several keys in one transaction, so a multi-store
// transition (archive + clear) is committed as a single unit and no
// reader can observe a partially cleared state.
func (s *StateStore) SetAll(ctx context.Context, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin state transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now); err != nil {
			return fmt.Errorf("failed to write state key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state transaction: %w", err)
	}
	return nil
}
