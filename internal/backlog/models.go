// Package backlog implements the researcher errors/features kanban. The one
// real invariant: an item's status must belong to the allowed status set for
// its type, checked before any persistence call.
package backlog

import (
	"time"

	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// ItemType distinguishes the two kanban boards.
type ItemType string

const (
	TypeError   ItemType = "error"
	TypeFeature ItemType = "feature"
)

func (t ItemType) IsValid() bool {
	return t == TypeError || t == TypeFeature
}

// Status is a lane on one of the boards. Each type has its own status set.
type Status string

const (
	// Error statuses.
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusWontFix       Status = "wont_fix"

	// Feature statuses.
	StatusProposed   Status = "proposed"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusShipped    Status = "shipped"
	StatusDeclined   Status = "declined"
)

// allowedStatuses is the single source of truth for which statuses each item
// type accepts.
var allowedStatuses = map[ItemType][]Status{
	TypeError:   {StatusOpen, StatusInvestigating, StatusResolved, StatusWontFix},
	TypeFeature: {StatusProposed, StatusPlanned, StatusInProgress, StatusShipped, StatusDeclined},
}

// AllowedStatuses returns the status set for an item type, in lane order.
func AllowedStatuses(t ItemType) []Status {
	return append([]Status(nil), allowedStatuses[t]...)
}

// ValidateStatus rejects statuses outside the item type's allowed set.
func ValidateStatus(t ItemType, s Status) error {
	for _, allowed := range allowedStatuses[t] {
		if s == allowed {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvalidInput, "status %q is not allowed for %s items", s, t)
}

// DefaultStatus is the lane new items land in.
func DefaultStatus(t ItemType) Status {
	if t == TypeError {
		return StatusOpen
	}
	return StatusProposed
}

// Priority orders items for triage.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Item is one backlog card. DisplayOrder is dense 0..n-1 within the item's
// lane (type + status); Reorder rewrites a whole lane.
type Item struct {
	ID           id.BacklogItemID `json:"id"`
	Type         ItemType         `json:"item_type"`
	Status       Status           `json:"status"`
	Priority     Priority         `json:"priority"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	DisplayOrder int              `json:"display_order"`
	ResponseID   *id.ResponseID   `json:"response_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Comment is a child record keyed by item ID.
type Comment struct {
	ID        int64            `json:"id"`
	ItemID    id.BacklogItemID `json:"item_id"`
	Author    id.ResearcherID  `json:"author"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
}

// Link is an external reference attached to an item.
type Link struct {
	ID        int64            `json:"id"`
	ItemID    id.BacklogItemID `json:"item_id"`
	URL       string           `json:"url"`
	Label     string           `json:"label,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
