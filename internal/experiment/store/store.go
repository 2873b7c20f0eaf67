// Package store defines persistence for participant responses.
package store

import (
	"context"

	"voxlab/internal/experiment"
	id "voxlab/pkg/domain"
)

// Store persists experiment responses. Implementations return
// sentinel.ErrNotFound for missing rows and sentinel.ErrConflict for
// duplicate participant rows.
type Store interface {
	Create(ctx context.Context, resp *experiment.Response) error
	FindByID(ctx context.Context, respID id.ResponseID) (*experiment.Response, error)
	FindByParticipant(ctx context.Context, pid id.ParticipantID) (*experiment.Response, error)
	Update(ctx context.Context, resp *experiment.Response) error
	List(ctx context.Context, filter experiment.Filter) ([]*experiment.Response, error)
	BatchLabels(ctx context.Context) ([]string, error)
}
