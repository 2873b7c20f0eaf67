package store

import (
	"context"
	"sort"
	"sync"

	"voxlab/internal/experiment"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// InMemoryStore keeps responses in process memory. Used by tests and
// single-process development runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	responses map[id.ResponseID]*experiment.Response
	byPID     map[id.ParticipantID]id.ResponseID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		responses: make(map[id.ResponseID]*experiment.Response),
		byPID:     make(map[id.ParticipantID]id.ResponseID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, resp *experiment.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.responses[resp.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byPID[resp.ParticipantID]; exists {
		return sentinel.ErrConflict
	}
	cp := cloneResponse(resp)
	s.responses[resp.ID] = cp
	s.byPID[resp.ParticipantID] = resp.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, respID id.ResponseID) (*experiment.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.responses[respID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResponse(resp), nil
}

func (s *InMemoryStore) FindByParticipant(_ context.Context, pid id.ParticipantID) (*experiment.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	respID, ok := s.byPID[pid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResponse(s.responses[respID]), nil
}

func (s *InMemoryStore) Update(_ context.Context, resp *experiment.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[resp.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.responses[resp.ID] = cloneResponse(resp)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter experiment.Filter) ([]*experiment.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*experiment.Response, 0, len(s.responses))
	for _, resp := range s.responses {
		if filter.BatchLabel != "" && resp.BatchLabel != filter.BatchLabel {
			continue
		}
		if filter.Step != "" && resp.Step != filter.Step {
			continue
		}
		if filter.CompletedOnly && !resp.Completed() {
			continue
		}
		out = append(out, cloneResponse(resp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) BatchLabels(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var labels []string
	for _, resp := range s.responses {
		if resp.BatchLabel == "" || seen[resp.BatchLabel] {
			continue
		}
		seen[resp.BatchLabel] = true
		labels = append(labels, resp.BatchLabel)
	}
	sort.Strings(labels)
	return labels, nil
}

func cloneResponse(resp *experiment.Response) *experiment.Response {
	cp := *resp
	if resp.Demographics != nil {
		demo := *resp.Demographics
		cp.Demographics = &demo
	}
	if resp.Answers != nil {
		cp.Answers = append([]experiment.Answer(nil), resp.Answers...)
	}
	return &cp
}
