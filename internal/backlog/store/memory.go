package store

import (
	"context"
	"sort"
	"sync"

	"voxlab/internal/backlog"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	items     map[id.BacklogItemID]*backlog.Item
	comments  map[id.BacklogItemID][]*backlog.Comment
	links     map[id.BacklogItemID][]*backlog.Link
	nextChild int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		items:    make(map[id.BacklogItemID]*backlog.Item),
		comments: make(map[id.BacklogItemID][]*backlog.Comment),
		links:    make(map[id.BacklogItemID][]*backlog.Link),
	}
}

func (s *InMemoryStore) CreateItem(_ context.Context, item *backlog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindItem(_ context.Context, itemID id.BacklogItemID) (*backlog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *InMemoryStore) UpdateItem(_ context.Context, item *backlog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteItem(_ context.Context, itemID id.BacklogItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, itemID)
	delete(s.comments, itemID)
	delete(s.links, itemID)
	return nil
}

func (s *InMemoryStore) ListLane(_ context.Context, itemType backlog.ItemType, status backlog.Status) ([]*backlog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*backlog.Item
	for _, item := range s.items {
		if item.Type == itemType && item.Status == status {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *InMemoryStore) ListByType(_ context.Context, itemType backlog.ItemType) ([]*backlog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*backlog.Item
	for _, item := range s.items {
		if item.Type == itemType {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (s *InMemoryStore) ReplaceLaneOrder(_ context.Context, itemType backlog.ItemType, status backlog.Status, orderedIDs []id.BacklogItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for order, itemID := range orderedIDs {
		item, ok := s.items[itemID]
		if !ok {
			return sentinel.ErrNotFound
		}
		if item.Type != itemType || item.Status != status {
			return sentinel.ErrInvalidState
		}
		item.DisplayOrder = order
	}
	return nil
}

func (s *InMemoryStore) AddComment(_ context.Context, comment *backlog.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[comment.ItemID]; !ok {
		return sentinel.ErrNotFound
	}
	s.nextChild++
	comment.ID = s.nextChild
	cp := *comment
	s.comments[comment.ItemID] = append(s.comments[comment.ItemID], &cp)
	return nil
}

func (s *InMemoryStore) ListComments(_ context.Context, itemID id.BacklogItemID) ([]*backlog.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comments := s.comments[itemID]
	out := make([]*backlog.Comment, 0, len(comments))
	for _, c := range comments {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryStore) AddLink(_ context.Context, link *backlog.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[link.ItemID]; !ok {
		return sentinel.ErrNotFound
	}
	s.nextChild++
	link.ID = s.nextChild
	cp := *link
	s.links[link.ItemID] = append(s.links[link.ItemID], &cp)
	return nil
}

func (s *InMemoryStore) ListLinks(_ context.Context, itemID id.BacklogItemID) ([]*backlog.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := s.links[itemID]
	out := make([]*backlog.Link, 0, len(links))
	for _, l := range links {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}
