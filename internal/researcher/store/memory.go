package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"voxlab/internal/researcher"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in process memory. Email lookup is
// case-insensitive, matching the postgres citext column.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.ResearcherID]*researcher.Researcher
	byEmail map[string]id.ResearcherID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.ResearcherID]*researcher.Researcher),
		byEmail: make(map[string]id.ResearcherID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, r *researcher.Researcher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(r.Email)
	if _, exists := s.byEmail[email]; exists {
		return sentinel.ErrConflict
	}
	cp := *r
	s.byID[r.ID] = &cp
	s.byEmail[email] = r.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, rid id.ResearcherID) (*researcher.Researcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[rid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*researcher.Researcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rid, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[rid]
	return &cp, nil
}

func (s *InMemoryStore) RecordLogin(_ context.Context, rid id.ResearcherID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[rid]
	if !ok {
		return sentinel.ErrNotFound
	}
	now := time.Now().UTC()
	r.LastLoginAt = &now
	return nil
}
