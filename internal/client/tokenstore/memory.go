package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. Nothing survives a restart; it exists
// for tests and for running with persistence disabled.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Token(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *MemoryStore) DeleteToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) User(ctx context.Context) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	return append([]byte(nil), s.user...)
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
