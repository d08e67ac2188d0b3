package memstore

import (
	"context"
	"sync"

	"netattend/internal/storage"
)

// Store is an in-memory KV backend for local runs and tests.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make([]byte, len(value))
	copy(raw, value)
	s.data[key] = raw
	return nil
}

func (s *Store) Close() error {
	return nil
}
