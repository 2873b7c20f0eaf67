package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"voxlab/internal/pipeline/models"
	"voxlab/internal/pipeline/ports"
	"voxlab/internal/pipeline/store"
	"voxlab/internal/settings"
	settingsstore "voxlab/internal/settings/store"
	dErrors "voxlab/pkg/domain-errors"
)

// invocation records one batch call the fake invoker received.
type invocation struct {
	fn     string
	params ports.InvokeParams
}

// scriptedInvoker replays a fixed sequence of results and records every call.
// An entry with err set fails that batch.
type scriptedInvoker struct {
	script []scriptedBatch
	calls  []invocation
}

type scriptedBatch struct {
	result ports.InvokeResult
	err    error
}

func (f *scriptedInvoker) Invoke(_ context.Context, fn string, params ports.InvokeParams) (ports.InvokeResult, error) {
	f.calls = append(f.calls, invocation{fn: fn, params: params})
	if len(f.script) == 0 {
		return ports.InvokeResult{}, errors.New("invoker script exhausted")
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.result, next.err
}

type RunnerSuite struct {
	suite.Suite
	ctx      context.Context
	source   *store.InMemorySource
	settings *settings.Service
	engine   *Engine
	invoker  *scriptedInvoker
	runner   *Runner
}

func (s *RunnerSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = store.NewInMemory()

	svc, err := settings.New(settingsstore.NewInMemory())
	s.Require().NoError(err)
	s.settings = svc

	engine, err := NewEngine(s.source, s.settings)
	s.Require().NoError(err)
	s.engine = engine

	s.invoker = &scriptedInvoker{}
	runner, err := NewRunner(s.invoker, s.settings, s.engine, WithBatchSize(5))
	s.Require().NoError(err)
	s.runner = runner
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

// TestRunStageDrains verifies the draining loop keeps invoking until the
// backlog is empty and reports cumulative progress after every batch.
func (s *RunnerSuite) TestRunStageDrains() {
	// 12 pending items at batch size 5: three batches of 5, 5, 2.
	s.invoker.script = []scriptedBatch{
		{result: ports.InvokeResult{Processed: 5, Total: 12}},
		{result: ports.InvokeResult{Processed: 5, Total: 7}},
		{result: ports.InvokeResult{Processed: 2, Total: 2}},
	}

	var progress []int
	processed, err := s.runner.RunStage(s.ctx, models.StageMetrics, RunOptions{}, func(p int) {
		progress = append(progress, p)
	})
	s.Require().NoError(err)
	s.Equal(12, processed)
	s.Equal([]int{5, 10, 12}, progress)

	s.Require().Len(s.invoker.calls, 3)
	for _, call := range s.invoker.calls {
		s.Equal("compute-qualitative-metrics", call.fn)
		s.Equal(5, call.params.Limit)
	}
}

// TestRunStageParams verifies each stage maps to its endpoint and fixed
// flags, and that run options pass through.
func (s *RunnerSuite) TestRunStageParams() {
	cases := []struct {
		stage     models.Stage
		fn        string
		passAOnly bool
		passBOnly bool
	}{
		{models.StageTranscription, "submit-transcriptions", false, false},
		{models.StageMetrics, "compute-qualitative-metrics", false, false},
		{models.StagePassA, "run-thematic-coding", true, false},
		{models.StagePassB, "run-thematic-coding", false, true},
		{models.StageEvaluation, "enqueue-evaluations", false, false},
	}
	for _, tc := range cases {
		s.Run(string(tc.stage), func() {
			s.invoker.script = []scriptedBatch{{result: ports.InvokeResult{}}}
			s.invoker.calls = nil

			_, err := s.runner.RunStage(s.ctx, tc.stage, RunOptions{Recompute: true, Retry: true}, nil)
			s.Require().NoError(err)

			s.Require().Len(s.invoker.calls, 1)
			call := s.invoker.calls[0]
			s.Equal(tc.fn, call.fn)
			s.Equal(tc.passAOnly, call.params.PassAOnly)
			s.Equal(tc.passBOnly, call.params.PassBOnly)
			s.True(call.params.Recompute)
			s.True(call.params.Retry)
		})
	}
}

// TestRunStageNoProgress verifies a batch that processes nothing while items
// remain terminates the loop instead of spinning forever.
func (s *RunnerSuite) TestRunStageNoProgress() {
	s.invoker.script = []scriptedBatch{
		{result: ports.InvokeResult{Processed: 0, Total: 4}},
	}

	processed, err := s.runner.RunStage(s.ctx, models.StagePassA, RunOptions{}, nil)
	s.Require().NoError(err)
	s.Zero(processed)
	s.Len(s.invoker.calls, 1)
}

// TestRunStageBatchFailure verifies a failed batch aborts only that stage,
// keeps already-processed work counted, and surfaces as unavailable.
func (s *RunnerSuite) TestRunStageBatchFailure() {
	s.invoker.script = []scriptedBatch{
		{result: ports.InvokeResult{Processed: 5, Total: 12}},
		{err: errors.New("function timed out")},
	}

	processed, err := s.runner.RunStage(s.ctx, models.StagePassB, RunOptions{}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(5, processed)
	s.Len(s.invoker.calls, 2)
}

// TestRunStageUnknown verifies an unrecognized stage is rejected up front.
func (s *RunnerSuite) TestRunStageUnknown() {
	_, err := s.runner.RunStage(s.ctx, models.Stage("compaction"), RunOptions{}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Empty(s.invoker.calls)
}

// TestRunAll verifies the fixed stage order, the pre-run estimate taken from
// the cached status, and that a stage failure does not stop later stages.
func (s *RunnerSuite) TestRunAll() {
	// 3 participant calls, 2 transcribed, nothing computed yet:
	// metrics missing 2, pass A missing 2, pass B missing 3.
	s.source.SetCalls([]models.Call{participantCall(1), participantCall(2), participantCall(3)})
	s.source.SetTranscriptions([]models.Transcription{
		{CallID: "call-001", State: models.TranscriptionCompleted},
		{CallID: "call-002", State: models.TranscriptionCompleted},
	})
	_, err := s.engine.FetchStatus(s.ctx)
	s.Require().NoError(err)

	s.Run("estimate and order", func() {
		s.invoker.script = []scriptedBatch{
			{result: ports.InvokeResult{Processed: 2, Total: 2}}, // metrics
			{result: ports.InvokeResult{Processed: 2, Total: 2}}, // pass A
			{result: ports.InvokeResult{Processed: 3, Total: 3}}, // pass B
		}
		s.invoker.calls = nil

		var order []models.Stage
		result, err := s.runner.RunAll(s.ctx, Selection{Metrics: true, PassA: true, PassB: true}, RunOptions{},
			func(stage models.Stage, _ int) { order = append(order, stage) })
		s.Require().NoError(err)

		s.Equal(7, result.Estimate.Calls)
		s.InDelta(0.12, result.Estimate.CostUSD, 1e-9)
		s.InDelta(54, result.Estimate.Seconds, 1e-9)

		s.Equal([]models.Stage{models.StageMetrics, models.StagePassA, models.StagePassB}, order)
		s.Require().Len(result.Stages, 3)
		s.Equal(models.StageMetrics, result.Stages[0].Stage)
		s.Equal(2, result.Stages[0].Processed)
		s.Equal(models.StagePassB, result.Stages[2].Stage)
		s.Equal(3, result.Stages[2].Processed)
	})

	s.Run("failed stage is recorded and the rest still run", func() {
		s.invoker.script = []scriptedBatch{
			{err: errors.New("function cold start failed")}, // metrics
			{result: ports.InvokeResult{Processed: 2, Total: 2}}, // pass A
		}
		s.invoker.calls = nil

		result, err := s.runner.RunAll(s.ctx, Selection{Metrics: true, PassA: true}, RunOptions{}, nil)
		s.Require().NoError(err)

		s.Require().Len(result.Stages, 2)
		s.Require().Error(result.Stages[0].Err)
		s.NotEmpty(result.Stages[0].Error)
		s.NoError(result.Stages[1].Err)
		s.Equal(2, result.Stages[1].Processed)
	})

	s.Run("selection subset runs only what is selected", func() {
		s.invoker.script = []scriptedBatch{
			{result: ports.InvokeResult{Processed: 3, Total: 3}},
		}
		s.invoker.calls = nil

		result, err := s.runner.RunAll(s.ctx, Selection{PassB: true}, RunOptions{}, nil)
		s.Require().NoError(err)
		s.Require().Len(result.Stages, 1)
		s.Equal(models.StagePassB, result.Stages[0].Stage)
		s.Require().Len(s.invoker.calls, 1)
		s.True(s.invoker.calls[0].params.PassBOnly)
	})
}

// TestBumpRulesVersion verifies the bump increments by exactly one and
// refreshes the cached status so staleness shows immediately.
func (s *RunnerSuite) TestBumpRulesVersion() {
	s.source.SetCalls([]models.Call{participantCall(1)})
	s.source.SetTranscriptions([]models.Transcription{
		{CallID: "call-001", State: models.TranscriptionCompleted},
	})
	s.source.SetThematicCodes([]models.ThematicCode{
		{CallID: "call-001", Pass: models.PassA, RulesVersion: 1},
	})

	version, err := s.runner.BumpRulesVersion(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, version)

	status := s.engine.LastStatus()
	s.Require().NotNil(status)
	s.Equal(2, status.RulesVersion)
	s.Equal(1, status.PassA.Stale)
}

// TestEstimateRunAll verifies the cost table math and the nil-status case.
func (s *RunnerSuite) TestEstimateRunAll() {
	s.Run("nil status estimates zero", func() {
		s.Zero(EstimateRunAll(nil, Selection{Metrics: true, PassA: true, PassB: true}))
	})

	s.Run("stale pass work is included", func() {
		status := &models.Status{}
		status.Metrics.Missing = 4
		status.PassA.Missing = 1
		status.PassA.Stale = 2
		status.PassB.Missing = 0
		status.PassB.Stale = 5

		est := EstimateRunAll(status, Selection{Metrics: true, PassA: true, PassB: true})
		s.Equal(12, est.Calls)
		s.InDelta(4*0.012+3*0.021+5*0.018, est.CostUSD, 1e-9)
		s.InDelta(4*6+3*9+5*8, est.Seconds, 1e-9)
	})
}
