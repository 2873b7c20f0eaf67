// Package service enforces the backlog invariants: status sets per item
// type, and dense per-lane display ordering.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"voxlab/internal/backlog"
	"voxlab/internal/backlog/store"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/audit"
	"voxlab/pkg/platform/sentinel"
	"voxlab/pkg/requestcontext"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
	audit  audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "backlog store is required")
	}
	svc := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateInput carries the fields a new item needs. Status defaults to the
// type's first lane when empty.
type CreateInput struct {
	Type        backlog.ItemType
	Status      backlog.Status
	Priority    backlog.Priority
	Title       string
	Description string
	ResponseID  *id.ResponseID
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*backlog.Item, error) {
	if !in.Type.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown item type %q", in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	if in.Status == "" {
		in.Status = backlog.DefaultStatus(in.Type)
	}
	if err := backlog.ValidateStatus(in.Type, in.Status); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = backlog.PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown priority %q", in.Priority)
	}

	// New items append to the end of their lane.
	lane, err := s.store.ListLane(ctx, in.Type, in.Status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lane")
	}

	now := requestcontext.Now(ctx)
	item := &backlog.Item{
		ID:           id.BacklogItemID(uuid.New()),
		Type:         in.Type,
		Status:       in.Status,
		Priority:     in.Priority,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		DisplayOrder: len(lane),
		ResponseID:   in.ResponseID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item")
	}

	audit.Log(ctx, s.logger, s.audit, audit.EventBacklogItemCreated, item.ID.String(), item.Title)
	return item, nil
}

// Move changes an item's status (lane). The target status is validated
// against the item's type before any persistence call; the item appends to
// the end of the target lane and its old lane is re-densified.
func (s *Service) Move(ctx context.Context, itemID id.BacklogItemID, target backlog.Status) (*backlog.Item, error) {
	item, err := s.get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := backlog.ValidateStatus(item.Type, target); err != nil {
		return nil, err
	}
	if item.Status == target {
		return item, nil
	}

	oldStatus := item.Status
	targetLane, err := s.store.ListLane(ctx, item.Type, target)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read target lane")
	}

	item.Status = target
	item.DisplayOrder = len(targetLane)
	item.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to move item")
	}

	if err := s.densifyLane(ctx, item.Type, oldStatus); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.logger, s.audit, audit.EventBacklogItemMoved,
		item.ID.String(), string(oldStatus)+" -> "+string(target))
	return item, nil
}

// Reorder persists a caller-provided ordering for one lane. The ID list must
// contain exactly the lane's items; display orders become dense 0..n-1.
func (s *Service) Reorder(ctx context.Context, itemType backlog.ItemType, status backlog.Status, orderedIDs []id.BacklogItemID) error {
	if !itemType.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown item type %q", itemType)
	}
	if err := backlog.ValidateStatus(itemType, status); err != nil {
		return err
	}

	lane, err := s.store.ListLane(ctx, itemType, status)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lane")
	}
	if len(orderedIDs) != len(lane) {
		return dErrors.Newf(dErrors.CodeBadRequest,
			"reorder must list all %d lane items, got %d", len(lane), len(orderedIDs))
	}
	seen := make(map[id.BacklogItemID]bool, len(orderedIDs))
	for _, itemID := range orderedIDs {
		if seen[itemID] {
			return dErrors.New(dErrors.CodeBadRequest, "duplicate item in reorder")
		}
		seen[itemID] = true
	}
	for _, item := range lane {
		if !seen[item.ID] {
			return dErrors.Newf(dErrors.CodeBadRequest, "reorder is missing item %s", item.ID)
		}
	}

	if err := s.store.ReplaceLaneOrder(ctx, itemType, status, orderedIDs); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.New(dErrors.CodeConflict, "lane changed during reorder")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reorder lane")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, itemID id.BacklogItemID) (*backlog.Item, error) {
	return s.get(ctx, itemID)
}

func (s *Service) ListByType(ctx context.Context, itemType backlog.ItemType) ([]*backlog.Item, error) {
	if !itemType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown item type %q", itemType)
	}
	items, err := s.store.ListByType(ctx, itemType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list items")
	}
	return items, nil
}

func (s *Service) AddComment(ctx context.Context, itemID id.BacklogItemID, body string) (*backlog.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment body is required")
	}
	comment := &backlog.Comment{
		ItemID:    itemID,
		Author:    requestcontext.ResearcherID(ctx),
		Body:      strings.TrimSpace(body),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.AddComment(ctx, comment); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "backlog item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add comment")
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Comment, error) {
	comments, err := s.store.ListComments(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list comments")
	}
	return comments, nil
}

func (s *Service) AddLink(ctx context.Context, itemID id.BacklogItemID, url, label string) (*backlog.Link, error) {
	if strings.TrimSpace(url) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "link url is required")
	}
	link := &backlog.Link{
		ItemID:    itemID,
		URL:       strings.TrimSpace(url),
		Label:     label,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.AddLink(ctx, link); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "backlog item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add link")
	}
	return link, nil
}

func (s *Service) ListLinks(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Link, error) {
	links, err := s.store.ListLinks(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list links")
	}
	return links, nil
}

func (s *Service) get(ctx context.Context, itemID id.BacklogItemID) (*backlog.Item, error) {
	if itemID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "item id is required")
	}
	item, err := s.store.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "backlog item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load item")
	}
	return item, nil
}

// densifyLane rewrites a lane's display orders to 0..n-1 after a removal.
func (s *Service) densifyLane(ctx context.Context, itemType backlog.ItemType, status backlog.Status) error {
	lane, err := s.store.ListLane(ctx, itemType, status)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lane")
	}
	ids := make([]id.BacklogItemID, 0, len(lane))
	for _, item := range lane {
		ids = append(ids, item.ID)
	}
	if err := s.store.ReplaceLaneOrder(ctx, itemType, status, ids); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to densify lane")
	}
	return nil
}
