package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	pipelinemetrics "voxlab/internal/pipeline/metrics"
	"voxlab/internal/pipeline/models"
	"voxlab/internal/pipeline/ports"
	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/audit"
)

// stageFunctions maps each stage to its serverless batch endpoint and fixed
// invocation flags.
var stageFunctions = map[models.Stage]struct {
	fn        string
	passAOnly bool
	passBOnly bool
}{
	models.StageTranscription: {fn: "submit-transcriptions"},
	models.StageMetrics:       {fn: "compute-qualitative-metrics"},
	models.StagePassA:         {fn: "run-thematic-coding", passAOnly: true},
	models.StagePassB:         {fn: "run-thematic-coding", passBOnly: true},
	models.StageEvaluation:    {fn: "enqueue-evaluations"},
}

// RunOptions modifies a stage run.
type RunOptions struct {
	// Recompute reprocesses records that are merely stale, not just missing.
	Recompute bool
	// Retry requeues failed evaluation work (evaluation stage only).
	Retry bool
}

// Progress receives the cumulative processed count after every batch. The
// dashboard uses it to drive a live counter during long runs.
type Progress func(processed int)

// Runner drives the server-side batch endpoints until each stage's backlog
// is drained, and owns the rules-version bump.
type Runner struct {
	invoker   ports.Invoker
	settings  ports.SettingsWriter
	engine    *Engine
	logger    *slog.Logger
	metrics   *pipelinemetrics.Metrics
	audit     audit.Emitter
	tracer    trace.Tracer
	batchSize int
}

type RunnerOption func(*Runner)

func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

func WithRunnerMetrics(m *pipelinemetrics.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

func WithAuditEmitter(emitter audit.Emitter) RunnerOption {
	return func(r *Runner) { r.audit = emitter }
}

func WithBatchSize(size int) RunnerOption {
	return func(r *Runner) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

func NewRunner(invoker ports.Invoker, settings ports.SettingsWriter, engine *Engine, opts ...RunnerOption) (*Runner, error) {
	if invoker == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "invoker is required")
	}
	if engine == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "engine is required")
	}
	r := &Runner{
		invoker:   invoker,
		settings:  settings,
		engine:    engine,
		logger:    slog.Default(),
		tracer:    otel.Tracer("voxlab/pipeline"),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunStage drains one stage's backlog: repeated batch invocations until the
// endpoint reports zero remaining or a batch makes no progress (guards
// against a non-progressing backend looping forever). The cumulative
// processed count is reported through progress after every batch. A batch
// failure aborts this stage's loop only; already-processed items stay
// committed.
func (r *Runner) RunStage(ctx context.Context, stage models.Stage, opts RunOptions, progress Progress) (int, error) {
	cfg, ok := stageFunctions[stage]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "unknown stage %q", stage)
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run_stage",
		trace.WithAttributes(attribute.String("stage", string(stage))))
	defer span.End()

	params := ports.InvokeParams{
		Limit:     r.batchSize,
		Recompute: opts.Recompute,
		PassAOnly: cfg.passAOnly,
		PassBOnly: cfg.passBOnly,
		Retry:     opts.Retry,
	}

	var processed int
	for {
		res, err := r.invoker.Invoke(ctx, cfg.fn, params)
		if err != nil {
			span.RecordError(err)
			if r.metrics != nil {
				r.metrics.IncrementStageFailures(stage)
			}
			audit.Log(ctx, r.logger, r.audit, audit.EventStageRunFailed,
				string(stage), fmt.Sprintf("processed=%d error=%v", processed, err))
			return processed, dErrors.Wrap(err, dErrors.CodeUnavailable,
				fmt.Sprintf("stage %s batch failed", stage))
		}

		processed += res.Processed
		if r.metrics != nil {
			r.metrics.ObserveBatch(stage, res.Processed)
		}
		if progress != nil {
			progress(processed)
		}
		r.logger.InfoContext(ctx, "stage batch complete",
			"stage", string(stage),
			"batch_processed", res.Processed,
			"processed", processed,
			"remaining", res.Remaining(),
		)

		if res.Remaining() == 0 || res.Processed == 0 {
			break
		}
	}

	span.SetAttributes(attribute.Int("processed", processed))
	audit.Log(ctx, r.logger, r.audit, audit.EventStageRunCompleted,
		string(stage), fmt.Sprintf("processed=%d", processed))
	return processed, nil
}

// BumpRulesVersion increments the thematic-coding rules version by exactly 1.
// Irrevocable: every previously fresh coded record of the affected stages
// becomes stale immediately. Refreshes status before returning so dependent
// UI reflects the downgrade.
func (r *Runner) BumpRulesVersion(ctx context.Context) (int, error) {
	if r.settings == nil {
		return 0, dErrors.New(dErrors.CodeInternal, "settings writer is required for version bumps")
	}
	version, err := r.settings.BumpRulesVersion(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bump rules version")
	}

	audit.Log(ctx, r.logger, r.audit, audit.EventRulesVersionBumped,
		"thematic_coding_rules_version", fmt.Sprintf("version=%d", version))

	if _, err := r.engine.FetchStatus(ctx); err != nil {
		// The bump itself succeeded; a refresh failure only delays the UI.
		r.logger.WarnContext(ctx, "status refresh after version bump failed", "error", err)
	}
	return version, nil
}

// StageResult is one stage's outcome within a run-all.
type StageResult struct {
	Stage     models.Stage `json:"stage"`
	Processed int          `json:"processed"`
	Err       error        `json:"-"`
	Error     string       `json:"error,omitempty"`
}

// RunAllResult carries the pre-run estimate and the per-stage outcomes.
type RunAllResult struct {
	Estimate Estimate      `json:"estimate"`
	Stages   []StageResult `json:"stages"`
}

// RunAll runs the selected stages strictly sequentially in the fixed order
// metrics, pass A, pass B. The cost/time estimate is accumulated before any
// execution; status is refreshed exactly once at the very end. A stage
// failure is recorded and the remaining stages still run: failures are local
// and non-fatal to the rest of the pipeline.
func (r *Runner) RunAll(ctx context.Context, sel Selection, opts RunOptions, progress func(stage models.Stage, processed int)) (RunAllResult, error) {
	result := RunAllResult{Estimate: EstimateRunAll(r.engine.LastStatus(), sel)}

	for _, stage := range sel.Stages() {
		var stageProgress Progress
		if progress != nil {
			s := stage
			stageProgress = func(processed int) { progress(s, processed) }
		}
		processed, err := r.RunStage(ctx, stage, opts, stageProgress)
		sr := StageResult{Stage: stage, Processed: processed, Err: err}
		if err != nil {
			sr.Error = err.Error()
		}
		result.Stages = append(result.Stages, sr)
	}

	if _, err := r.engine.FetchStatus(ctx); err != nil {
		r.logger.WarnContext(ctx, "final status refresh after run-all failed", "error", err)
	}
	return result, nil
}
