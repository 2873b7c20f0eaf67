package store

import (
	"context"
	"sort"
	"sync"

	"voxlab/internal/formality"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// InMemoryStore keeps calculations in process memory. Used by tests and
// single-process development runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	calcs map[id.CalculationID]*formality.Calculation
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{calcs: make(map[id.CalculationID]*formality.Calculation)}
}

func (s *InMemoryStore) Create(_ context.Context, calc *formality.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.calcs[calc.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *calc
	s.calcs[calc.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, calcID id.CalculationID) (*formality.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calc, ok := s.calcs[calcID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *calc
	return &cp, nil
}

func (s *InMemoryStore) ListByCall(_ context.Context, callID id.CallID) ([]*formality.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(c *formality.Calculation) bool { return c.CallID == callID }), nil
}

func (s *InMemoryStore) ListByParticipant(_ context.Context, participantID id.ParticipantID) ([]*formality.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(c *formality.Calculation) bool { return c.ParticipantID == participantID }), nil
}

func (s *InMemoryStore) List(_ context.Context, limit, offset int) ([]*formality.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.filter(func(*formality.Calculation) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// filter returns copies sorted newest first. Callers hold the lock.
func (s *InMemoryStore) filter(keep func(*formality.Calculation) bool) []*formality.Calculation {
	var out []*formality.Calculation
	for _, calc := range s.calcs {
		if keep(calc) {
			cp := *calc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
