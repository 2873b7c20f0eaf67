// Package models defines the snapshot rows and status types of the compute
// pipeline. Statuses are recomputed from backend snapshots on every refresh;
// nothing here is stored stage state.
package models

import (
	"time"

	id "voxlab/pkg/domain"
)

// Stage is one phase of the researcher compute pipeline.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageMetrics       Stage = "metrics"
	StagePassA         Stage = "pass_a"
	StagePassB         Stage = "pass_b"
	StageEvaluation    Stage = "evaluation"
)

// Stages lists the pipeline stages in dependency order.
var Stages = []Stage{StageTranscription, StageMetrics, StagePassA, StagePassB, StageEvaluation}

// IsValid reports whether s names a known stage.
func (s Stage) IsValid() bool {
	switch s {
	case StageTranscription, StageMetrics, StagePassA, StagePassB, StageEvaluation:
		return true
	}
	return false
}

// Light is the traffic-light state shown per stage. It is a pure function of
// the stage counters.
type Light string

const (
	LightLoading Light = "loading"
	LightGreen   Light = "green"
	LightYellow  Light = "yellow"
	LightRed     Light = "red"
)

// TranscriptionState is the lifecycle state of one transcription record.
type TranscriptionState string

const (
	TranscriptionSubmitted  TranscriptionState = "submitted"
	TranscriptionInProgress TranscriptionState = "in_progress"
	TranscriptionCompleted  TranscriptionState = "completed"
	TranscriptionError      TranscriptionState = "error"
)

// QueueState is the lifecycle state of one evaluation work-queue row.
type QueueState string

const (
	QueueQueued  QueueState = "queued"
	QueueRunning QueueState = "running"
	QueueDone    QueueState = "done"
	QueueFailed  QueueState = "failed"
)

// ThematicPass distinguishes the two coding passes.
type ThematicPass string

const (
	PassA ThematicPass = "a"
	PassB ThematicPass = "b"
)

// Snapshot rows. These are the typed subsets of the backend collections the
// engine reads; the stores do the joins so staleness logic never re-derives
// them.

// Call is one voice-assistant call record.
type Call struct {
	ID            id.CallID
	ParticipantID id.ParticipantID
	CreatedAt     time.Time
}

// Transcription is the transcription record for one call.
type Transcription struct {
	CallID id.CallID
	State  TranscriptionState
}

// MetricsRecord marks that qualitative metrics exist for a call. Metrics are
// derived facts with no versioned ruleset, so there is no staleness here.
type MetricsRecord struct {
	CallID     id.CallID
	ComputedAt time.Time
}

// ThematicCode is one coding output, tagged with the rules version it was
// produced under.
type ThematicCode struct {
	CallID       id.CallID
	Pass         ThematicPass
	RulesVersion int
}

// EvaluationScore is one external structured-evaluation result.
type EvaluationScore struct {
	CallID   id.CallID
	MetricID string
}

// QueueItem is one row of the external evaluation work queue.
type QueueItem struct {
	CallID   id.CallID
	MetricID string
	State    QueueState
}

// Snapshot bundles one consistent read of all pipeline collections.
type Snapshot struct {
	Calls          []Call
	Transcriptions []Transcription
	Metrics        []MetricsRecord
	Codes          []ThematicCode
	Scores         []EvaluationScore
	Queue          []QueueItem
}

// Stage statuses.

// TranscriptionStatus partitions participant calls by transcription state.
type TranscriptionStatus struct {
	Total      int   `json:"total"`
	Submitted  int   `json:"submitted"`
	InProgress int   `json:"in_progress"`
	Completed  int   `json:"completed"`
	Errors     int   `json:"errors"`
	Missing    int   `json:"missing"`
	Light      Light `json:"light"`
}

// MetricsStatus covers qualitative metrics over transcribed calls.
type MetricsStatus struct {
	Total   int   `json:"total"`
	Missing int   `json:"missing"`
	Fresh   int   `json:"fresh"`
	Light   Light `json:"light"`
}

// PassStatus covers one thematic coding pass. Invariant after every
// recomputation: Missing + Stale + Fresh == Total.
type PassStatus struct {
	Total   int   `json:"total"`
	Missing int   `json:"missing"`
	Stale   int   `json:"stale"`
	Fresh   int   `json:"fresh"`
	Light   Light `json:"light"`
}

// EvaluationStatus covers the external structured evaluation, including the
// separate work-queue counters. Configured is false when no active metric is
// set; the light is then yellow unconditionally.
type EvaluationStatus struct {
	Configured     bool   `json:"configured"`
	ActiveMetricID string `json:"active_metric_id,omitempty"`
	Total          int    `json:"total"`
	Missing        int    `json:"missing"`
	Stale          int    `json:"stale"`
	Fresh          int    `json:"fresh"`
	Queued         int    `json:"queued"`
	Running        int    `json:"running"`
	Failed         int    `json:"failed"`
	Light          Light  `json:"light"`
}

// Status is the full recomputed pipeline state.
type Status struct {
	RulesVersion  int                 `json:"rules_version"`
	Transcription TranscriptionStatus `json:"transcription"`
	Metrics       MetricsStatus       `json:"metrics"`
	PassA         PassStatus          `json:"pass_a"`
	PassB         PassStatus          `json:"pass_b"`
	Evaluation    EvaluationStatus    `json:"evaluation"`
	FetchedAt     time.Time           `json:"fetched_at"`
}
