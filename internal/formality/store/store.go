// Package store persists formality calculations. Records are immutable:
// created once, read many, never updated.
package store

import (
	"context"

	"voxlab/internal/formality"
	id "voxlab/pkg/domain"
)

// Store is the calculation repository. Implementations return
// sentinel.ErrNotFound / sentinel.ErrConflict; services translate.
type Store interface {
	Create(ctx context.Context, calc *formality.Calculation) error
	FindByID(ctx context.Context, calcID id.CalculationID) (*formality.Calculation, error)
	ListByCall(ctx context.Context, callID id.CallID) ([]*formality.Calculation, error)
	ListByParticipant(ctx context.Context, participantID id.ParticipantID) ([]*formality.Calculation, error)
	List(ctx context.Context, limit, offset int) ([]*formality.Calculation, error)
}
