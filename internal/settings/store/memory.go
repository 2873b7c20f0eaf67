// Package store provides the settings repositories: in-memory, PostgreSQL,
// and a Redis read-through cache that wraps either.
package store

import (
	"context"
	"strconv"
	"sync"

	"voxlab/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]string)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStore) IncrementInt(_ context.Context, key string, initial int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := initial
	if raw, ok := s.values[key]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil {
			current = parsed
		}
	}
	current++
	s.values[key] = strconv.Itoa(current)
	return current, nil
}
