// Package session models the participant flow state explicitly. Handlers
// reconstruct State from request data and pass it to services; nothing in
// the backend reads ambient per-session storage.
package session

import (
	"time"

	"voxlab/internal/experiment"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// State is the participant's position in the flow plus the identifiers the
// flow accumulates. It travels with every request.
type State struct {
	ParticipantID  id.ParticipantID `json:"participant_id"`
	ResponseID     id.ResponseID    `json:"response_id"`
	Step           experiment.Step  `json:"step"`
	BatchLabel     string           `json:"batch_label,omitempty"`
	ResearcherMode bool             `json:"researcher_mode,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
}

// New starts a session at the welcome step.
func New(pid id.ParticipantID, batchLabel string, now time.Time) State {
	return State{
		ParticipantID: pid,
		Step:          experiment.StepWelcome,
		BatchLabel:    batchLabel,
		StartedAt:     now,
	}
}

// Advance moves the session to the next step. The target must be exactly the
// step after the current one; skipping ahead is rejected so a participant
// cannot reach the questionnaire without consenting.
func (s *State) Advance(to experiment.Step) error {
	if !to.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown step %q", to)
	}
	if to != s.Step.Next() {
		return dErrors.Newf(dErrors.CodeInvalidInput,
			"cannot advance from %q to %q", s.Step, to)
	}
	s.Step = to
	return nil
}

// Reached reports whether the session has passed the given step.
func (s *State) Reached(step experiment.Step) bool {
	return !s.Step.Before(step)
}
