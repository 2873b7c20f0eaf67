// Package store persists backlog items and their child collections.
package store

import (
	"context"

	"voxlab/internal/backlog"
	id "voxlab/pkg/domain"
)

// Store is the backlog repository. Implementations return sentinel errors;
// the service validates statuses before calling any mutator.
type Store interface {
	CreateItem(ctx context.Context, item *backlog.Item) error
	FindItem(ctx context.Context, itemID id.BacklogItemID) (*backlog.Item, error)
	UpdateItem(ctx context.Context, item *backlog.Item) error
	DeleteItem(ctx context.Context, itemID id.BacklogItemID) error
	// ListLane returns a lane's items ordered by display order.
	ListLane(ctx context.Context, itemType backlog.ItemType, status backlog.Status) ([]*backlog.Item, error)
	ListByType(ctx context.Context, itemType backlog.ItemType) ([]*backlog.Item, error)
	// ReplaceLaneOrder persists a dense 0..n-1 display order for the given
	// items, which must all belong to the lane.
	ReplaceLaneOrder(ctx context.Context, itemType backlog.ItemType, status backlog.Status, orderedIDs []id.BacklogItemID) error

	AddComment(ctx context.Context, comment *backlog.Comment) error
	ListComments(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Comment, error)
	AddLink(ctx context.Context, link *backlog.Link) error
	ListLinks(ctx context.Context, itemID id.BacklogItemID) ([]*backlog.Link, error)
}
