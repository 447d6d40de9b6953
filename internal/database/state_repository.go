package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/verbbot/internal/state"
	"github.com/jmoiron/sqlx"
)

// StateStore keeps user records as JSON snapshots in the user_state table
type StateStore struct {
	db     *sqlx.DB
	lookup state.VerbLookup
	nowFn  func() time.Time
}

// NewStateStore creates a store over an open database. Verbs in stored
// records are resolved through lookup.
func NewStateStore(db *sqlx.DB, lookup state.VerbLookup) *StateStore {
	return &StateStore{db: db, lookup: lookup, nowFn: time.Now}
}

// Get retrieves a user record
func (s *StateStore) Get(ctx context.Context, userID int64) (*state.User, error) {
	query := s.db.Rebind(`
		SELECT payload
		FROM user_state
		WHERE user_id = ?
	`)

	var payload string
	err := s.db.GetContext(ctx, &payload, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	return state.Decode([]byte(payload), s.lookup)
}

// Put inserts or replaces a user record
func (s *StateStore) Put(ctx context.Context, user *state.User) error {
	data, err := state.Encode(user)
	if err != nil {
		return err
	}

	query := s.db.Rebind(`
		INSERT INTO user_state (user_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, user.ID, string(data), s.nowFn().UTC()); err != nil {
		return fmt.Errorf("put user %d: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user record
func (s *StateStore) Delete(ctx context.Context, userID int64) error {
	query := s.db.Rebind(`DELETE FROM user_state WHERE user_id = ?`)

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// UserIDs lists every stored user id in ascending order
func (s *StateStore) UserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM user_state ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// OpenStore returns the state store for a driver and a func that releases it
func OpenStore(driver, dsn string, lookup state.VerbLookup) (state.Store, func() error, error) {
	if driver == "" || driver == DriverMemory {
		return state.NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewStateStore(db, lookup), db.Close, nil
}
