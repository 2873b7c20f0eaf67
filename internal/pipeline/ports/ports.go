// Package ports defines the interfaces the pipeline engine depends on:
// snapshot repositories, the settings reader, and the batch-job invoker.
// Interfaces live here because the engine, runner, and handler all consume
// them.
package ports

import (
	"context"

	"voxlab/internal/pipeline/models"
)

// SnapshotSource returns typed rows from the backend collections. Each
// method returns the full collection; filtering to participant calls is the
// engine's job and happens in exactly one place.
type SnapshotSource interface {
	ListCalls(ctx context.Context) ([]models.Call, error)
	ListTranscriptions(ctx context.Context) ([]models.Transcription, error)
	ListMetrics(ctx context.Context) ([]models.MetricsRecord, error)
	ListThematicCodes(ctx context.Context) ([]models.ThematicCode, error)
	ListEvaluationScores(ctx context.Context) ([]models.EvaluationScore, error)
	ListEvaluationQueue(ctx context.Context) ([]models.QueueItem, error)
}

// SettingsReader exposes the two settings the engine consumes.
type SettingsReader interface {
	// RulesVersion returns the current thematic-coding rules version.
	RulesVersion(ctx context.Context) (int, error)
	// ActiveEvaluationMetricID returns the configured metric ID, or ""
	// when none is configured.
	ActiveEvaluationMetricID(ctx context.Context) (string, error)
}

// SettingsWriter is the mutation side used by the rules-version bump.
type SettingsWriter interface {
	// BumpRulesVersion atomically increments the rules version by exactly 1
	// and returns the new value.
	BumpRulesVersion(ctx context.Context) (int, error)
}

// InvokeParams are the parameters of one batch call to a serverless
// function.
type InvokeParams struct {
	Limit     int  `json:"limit"`
	Recompute bool `json:"recompute,omitempty"`
	PassAOnly bool `json:"passAOnly,omitempty"`
	PassBOnly bool `json:"passBOnly,omitempty"`
	Retry     bool `json:"retry,omitempty"`
}

// InvokeResult is the {count, total} contract the draining loop depends on.
// Processed is how many items this batch handled; Total is how many items
// still required processing when the call started (this batch included).
type InvokeResult struct {
	Processed int
	Total     int
}

// Remaining is the number of items left after this batch.
func (r InvokeResult) Remaining() int {
	remaining := r.Total - r.Processed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Invoker calls a server-side batch-processing endpoint once.
type Invoker interface {
	Invoke(ctx context.Context, fn string, params InvokeParams) (InvokeResult, error)
}
