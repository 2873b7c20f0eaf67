// Package store defines persistence for researcher accounts.
package store

import (
	"context"

	"voxlab/internal/researcher"
	id "voxlab/pkg/domain"
)

// Store persists researcher accounts. Implementations return
// sentinel.ErrNotFound for missing rows.
type Store interface {
	Create(ctx context.Context, r *researcher.Researcher) error
	FindByID(ctx context.Context, rid id.ResearcherID) (*researcher.Researcher, error)
	FindByEmail(ctx context.Context, email string) (*researcher.Researcher, error)
	RecordLogin(ctx context.Context, rid id.ResearcherID) error
}
