package storage

import (
	"context"
	"fmt"
	"sync"

	"finflow/internal/core"
)

// MemoryStore is the map-backed store used as the default backend and in
// tests. Documents are deep-copied on the way in and out so callers never
// share slices with the store.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]core.User
	records map[string]*core.FinanceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]core.User),
		records: make(map[string]*core.FinanceRecord),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Username]; ok {
		return fmt.Errorf("user %q: %w", u.Username, core.ErrConflict)
	}
	s.users[u.Username] = u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryStore) LoadRecord(_ context.Context, username string) (*core.FinanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username]
	if !ok {
		return nil, fmt.Errorf("finance record for %q: %w", username, core.ErrNotFound)
	}
	return core.Clone(rec), nil
}

func (s *MemoryStore) SaveRecord(_ context.Context, username string, rec *core.FinanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[username] = core.Clone(rec)
	return nil
}
