// Package pipeline reconciles the state of the five-stage compute pipeline
// against backend snapshots. The engine is stateless between calls: every
// FetchStatus recomputes from scratch, and a later refresh supersedes an
// in-flight one.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	pipelinemetrics "voxlab/internal/pipeline/metrics"
	"voxlab/internal/pipeline/models"
	"voxlab/internal/pipeline/ports"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// IsParticipantCall is the single predicate deciding which calls count
// toward any stage total. Researcher test calls carry free-form labels and
// are excluded everywhere.
func IsParticipantCall(c models.Call) bool {
	return c.ParticipantID.IsParticipant()
}

// Engine computes pipeline status from backend snapshots.
type Engine struct {
	source   ports.SnapshotSource
	settings ports.SettingsReader
	logger   *slog.Logger
	metrics  *pipelinemetrics.Metrics

	// generation orders concurrent refreshes so a stale in-flight fetch
	// never overwrites a newer result.
	generation atomic.Uint64

	mu   sync.RWMutex
	last *models.Status
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *pipelinemetrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(source ports.SnapshotSource, settings ports.SettingsReader, opts ...EngineOption) (*Engine, error) {
	if source == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "snapshot source is required")
	}
	if settings == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "settings reader is required")
	}
	e := &Engine{source: source, settings: settings, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FetchStatus recomputes all stage statuses from a fresh snapshot. Any fetch
// failure surfaces the whole panel as indeterminate (an error, never a
// partially wrong status). Safe to call concurrently: the newest call wins.
func (e *Engine) FetchStatus(ctx context.Context) (*models.Status, error) {
	gen := e.generation.Add(1)

	snap, rulesVersion, activeMetricID, err := e.fetchSnapshot(ctx)
	if err != nil {
		if e.metrics != nil {
			e.metrics.IncrementFetchFailures()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch pipeline snapshot")
	}

	status := ComputeStatus(snap, rulesVersion, activeMetricID)
	status.FetchedAt = time.Now().UTC()

	e.mu.Lock()
	if gen == e.generation.Load() {
		e.last = status
	}
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.ObserveFetch(status)
	}
	return status, nil
}

// LastStatus returns the most recently computed status, or nil before the
// first successful fetch (the UI renders "loading" lights then).
func (e *Engine) LastStatus() *models.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

func (e *Engine) fetchSnapshot(ctx context.Context) (models.Snapshot, int, string, error) {
	var (
		snap           models.Snapshot
		rulesVersion   int
		activeMetricID string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Calls, err = e.source.ListCalls(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Transcriptions, err = e.source.ListTranscriptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Metrics, err = e.source.ListMetrics(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Codes, err = e.source.ListThematicCodes(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Scores, err = e.source.ListEvaluationScores(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Queue, err = e.source.ListEvaluationQueue(gctx)
		return err
	})
	g.Go(func() (err error) {
		rulesVersion, err = e.settings.RulesVersion(gctx)
		return err
	})
	g.Go(func() (err error) {
		activeMetricID, err = e.settings.ActiveEvaluationMetricID(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, 0, "", err
	}
	return snap, rulesVersion, activeMetricID, nil
}

// ComputeStatus derives all stage statuses from one snapshot. Pure: no I/O,
// no clock.
func ComputeStatus(snap models.Snapshot, rulesVersion int, activeMetricID string) *models.Status {
	calls := make([]models.Call, 0, len(snap.Calls))
	for _, c := range snap.Calls {
		if IsParticipantCall(c) {
			calls = append(calls, c)
		}
	}

	transcriptions := indexTranscriptions(snap.Transcriptions)
	transcribed := transcribedCalls(calls, transcriptions)

	return &models.Status{
		RulesVersion:  rulesVersion,
		Transcription: computeTranscriptionStatus(calls, transcriptions),
		Metrics:       computeMetricsStatus(transcribed, snap.Metrics),
		PassA:         computePassStatus(transcribed, snap.Codes, models.PassA, rulesVersion),
		PassB:         computePassStatus(calls, snap.Codes, models.PassB, rulesVersion),
		Evaluation:    computeEvaluationStatus(calls, snap.Scores, snap.Queue, activeMetricID),
	}
}

func indexTranscriptions(ts []models.Transcription) map[id.CallID]models.TranscriptionState {
	out := make(map[id.CallID]models.TranscriptionState, len(ts))
	for _, t := range ts {
		out[t.CallID] = t.State
	}
	return out
}

// transcribedCalls returns the participant calls with a completed
// transcription; metrics and Pass A are defined only over these.
func transcribedCalls(calls []models.Call, transcriptions map[id.CallID]models.TranscriptionState) []models.Call {
	out := make([]models.Call, 0, len(calls))
	for _, c := range calls {
		if transcriptions[c.ID] == models.TranscriptionCompleted {
			out = append(out, c)
		}
	}
	return out
}

func computeTranscriptionStatus(calls []models.Call, transcriptions map[id.CallID]models.TranscriptionState) models.TranscriptionStatus {
	st := models.TranscriptionStatus{Total: len(calls)}
	for _, c := range calls {
		state, ok := transcriptions[c.ID]
		if !ok {
			st.Missing++
			continue
		}
		switch state {
		case models.TranscriptionCompleted:
			st.Completed++
		case models.TranscriptionInProgress:
			st.InProgress++
		case models.TranscriptionError:
			st.Errors++
		default:
			st.Submitted++
		}
	}

	switch {
	case st.Errors > 0:
		st.Light = models.LightRed
	case st.Missing+st.InProgress+st.Submitted > 0:
		st.Light = models.LightYellow
	default:
		st.Light = models.LightGreen
	}
	return st
}

func computeMetricsStatus(transcribed []models.Call, metrics []models.MetricsRecord) models.MetricsStatus {
	have := make(map[id.CallID]bool, len(metrics))
	for _, m := range metrics {
		have[m.CallID] = true
	}

	st := models.MetricsStatus{Total: len(transcribed)}
	for _, c := range transcribed {
		if have[c.ID] {
			st.Fresh++
		} else {
			st.Missing++
		}
	}

	if st.Missing > 0 {
		st.Light = models.LightYellow
	} else {
		st.Light = models.LightGreen
	}
	return st
}

func computePassStatus(eligible []models.Call, codes []models.ThematicCode, pass models.ThematicPass, rulesVersion int) models.PassStatus {
	coded := make(map[id.CallID]int, len(codes))
	for _, code := range codes {
		if code.Pass == pass {
			coded[code.CallID] = code.RulesVersion
		}
	}

	st := models.PassStatus{Total: len(eligible)}
	for _, c := range eligible {
		version, ok := coded[c.ID]
		switch {
		case !ok:
			st.Missing++
		case version < rulesVersion:
			st.Stale++
		default:
			st.Fresh++
		}
	}

	switch {
	case st.Stale > 0:
		st.Light = models.LightRed
	case st.Missing > 0:
		st.Light = models.LightYellow
	default:
		st.Light = models.LightGreen
	}
	return st
}

func computeEvaluationStatus(calls []models.Call, scores []models.EvaluationScore, queue []models.QueueItem, activeMetricID string) models.EvaluationStatus {
	st := models.EvaluationStatus{
		ActiveMetricID: activeMetricID,
		Configured:     activeMetricID != "",
		Total:          len(calls),
	}
	if !st.Configured {
		// No active metric: nothing can be fresh or stale, and the stage
		// needs researcher attention regardless of the data.
		st.Light = models.LightYellow
		return st
	}

	scored := make(map[id.CallID]string, len(scores))
	for _, score := range scores {
		scored[score.CallID] = score.MetricID
	}
	for _, c := range calls {
		metricID, ok := scored[c.ID]
		switch {
		case !ok:
			st.Missing++
		case metricID != activeMetricID:
			st.Stale++
		default:
			st.Fresh++
		}
	}

	// Queue counters are filtered by the active metric so a metric switch
	// does not surface a dead queue's failures.
	for _, item := range queue {
		if item.MetricID != activeMetricID {
			continue
		}
		switch item.State {
		case models.QueueQueued:
			st.Queued++
		case models.QueueRunning:
			st.Running++
		case models.QueueFailed:
			st.Failed++
		}
	}

	switch {
	case st.Failed > 0:
		st.Light = models.LightRed
	case st.Missing+st.Stale > 0:
		st.Light = models.LightYellow
	default:
		st.Light = models.LightGreen
	}
	return st
}
