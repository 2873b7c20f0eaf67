package audit

import (
	"time"

	id "voxlab/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryResearch covers events with scientific-record significance:
	// anything that changes what a published analysis would be computed from.
	// Examples: formality calculations stored, rules-version bumps.
	CategoryResearch EventCategory = "research"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: stage runs, backlog changes.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory
	Timestamp     time.Time
	ResearcherID  id.ResearcherID
	ParticipantID id.ParticipantID
	Action        string
	Subject       string
	Detail        string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
}

// AuditEvent names the actions the platform records.
type AuditEvent string

const (
	// Formality events
	EventCalculationStored AuditEvent = "formality_calculation_stored"

	// Pipeline events
	EventRulesVersionBumped AuditEvent = "rules_version_bumped"
	EventStageRunCompleted  AuditEvent = "stage_run_completed"
	EventStageRunFailed     AuditEvent = "stage_run_failed"

	// Experiment events
	EventResponseCreated AuditEvent = "experiment_response_created"

	// Backlog events
	EventBacklogItemCreated AuditEvent = "backlog_item_created"
	EventBacklogItemMoved   AuditEvent = "backlog_item_moved"
)

// CategoryFor routes an event name to its category. Unknown actions default
// to operations so nothing is silently dropped.
func CategoryFor(action AuditEvent) EventCategory {
	switch action {
	case EventCalculationStored, EventRulesVersionBumped:
		return CategoryResearch
	default:
		return CategoryOperations
	}
}
