// Package domain holds typed identifiers and small domain values shared
// across modules. Construct IDs via the Parse helpers at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "voxlab/pkg/domain-errors"
)

// UUID-backed identifiers. Distinct types so the compiler rejects mixups
// between, say, a calculation ID and a backlog item ID.
type (
	CalculationID uuid.UUID
	ResponseID    uuid.UUID
	BacklogItemID uuid.UUID
	ResearcherID  uuid.UUID
)

func (id CalculationID) String() string { return uuid.UUID(id).String() }
func (id ResponseID) String() string    { return uuid.UUID(id).String() }
func (id BacklogItemID) String() string { return uuid.UUID(id).String() }
func (id ResearcherID) String() string  { return uuid.UUID(id).String() }

func (id CalculationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ResponseID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id BacklogItemID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ResearcherID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be nil", what)
	}
	return u, nil
}

// ParseCalculationID constructs a CalculationID from external input.
func ParseCalculationID(s string) (CalculationID, error) {
	u, err := parseUUID(s, "calculation id")
	return CalculationID(u), err
}

// ParseResponseID constructs a ResponseID from external input.
func ParseResponseID(s string) (ResponseID, error) {
	u, err := parseUUID(s, "response id")
	return ResponseID(u), err
}

// ParseBacklogItemID constructs a BacklogItemID from external input.
func ParseBacklogItemID(s string) (BacklogItemID, error) {
	u, err := parseUUID(s, "backlog item id")
	return BacklogItemID(u), err
}

// ParseResearcherID constructs a ResearcherID from external input.
func ParseResearcherID(s string) (ResearcherID, error) {
	u, err := parseUUID(s, "researcher id")
	return ResearcherID(u), err
}
