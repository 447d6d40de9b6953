package state

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get for a user without a record
var ErrNotFound = errors.New("user state not found")

// Store keeps one User record per transport user id. Get returns a copy the
// caller may change freely; nothing is visible to other callers until Put.
type Store interface {
	Get(ctx context.Context, userID int64) (*User, error)
	Put(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID int64) error
	UserIDs(ctx context.Context) ([]int64, error)
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]*User
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]*User)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, user *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) UserIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
