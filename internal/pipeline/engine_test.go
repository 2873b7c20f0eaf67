package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"voxlab/internal/pipeline/models"
	"voxlab/internal/pipeline/store"
	"voxlab/internal/settings"
	settingsstore "voxlab/internal/settings/store"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	ctx      context.Context
	source   *store.InMemorySource
	settings *settings.Service
	engine   *Engine
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = store.NewInMemory()

	svc, err := settings.New(settingsstore.NewInMemory())
	s.Require().NoError(err)
	s.settings = svc

	engine, err := NewEngine(s.source, s.settings)
	s.Require().NoError(err)
	s.engine = engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// participantCall builds a call whose ID length marks it as a participant.
func participantCall(n int) models.Call {
	return models.Call{
		ID:            id.CallID(fmt.Sprintf("call-%03d", n)),
		ParticipantID: id.ParticipantID(fmt.Sprintf("PART%04d", n)),
	}
}

// researcherCall builds a test call that must be excluded from all totals.
func researcherCall(n int) models.Call {
	return models.Call{
		ID:            id.CallID(fmt.Sprintf("test-%03d", n)),
		ParticipantID: id.ParticipantID("researcher-test"),
	}
}

func (s *EngineSuite) fetch() *models.Status {
	status, err := s.engine.FetchStatus(s.ctx)
	s.Require().NoError(err)
	return status
}

func (s *EngineSuite) assertCounterInvariant(status *models.Status) {
	s.Equal(status.PassA.Total, status.PassA.Missing+status.PassA.Stale+status.PassA.Fresh, "pass A")
	s.Equal(status.PassB.Total, status.PassB.Missing+status.PassB.Stale+status.PassB.Fresh, "pass B")
	s.Equal(status.Metrics.Total, status.Metrics.Missing+status.Metrics.Fresh, "metrics")
	if status.Evaluation.Configured {
		s.Equal(status.Evaluation.Total,
			status.Evaluation.Missing+status.Evaluation.Stale+status.Evaluation.Fresh, "evaluation")
	}
}

// TestCounterInvariant verifies missing+stale+fresh == total under every
// snapshot shape, including the empty one.
func (s *EngineSuite) TestCounterInvariant() {
	s.Run("empty snapshot", func() {
		status := s.fetch()
		s.assertCounterInvariant(status)
		s.Zero(status.PassB.Total)
	})

	s.Run("mixed snapshot", func() {
		s.source.SetCalls([]models.Call{participantCall(1), participantCall(2), participantCall(3)})
		s.source.SetTranscriptions([]models.Transcription{
			{CallID: "call-001", State: models.TranscriptionCompleted},
			{CallID: "call-002", State: models.TranscriptionCompleted},
		})
		s.source.SetThematicCodes([]models.ThematicCode{
			{CallID: "call-001", Pass: models.PassA, RulesVersion: 1},
			{CallID: "call-001", Pass: models.PassB, RulesVersion: 1},
		})
		s.assertCounterInvariant(s.fetch())
	})
}

// TestParticipantFilter verifies researcher test calls never reach any total.
func (s *EngineSuite) TestParticipantFilter() {
	s.source.SetCalls([]models.Call{
		participantCall(1),
		researcherCall(2),
		researcherCall(3),
	})

	status := s.fetch()
	s.Equal(1, status.Transcription.Total)
	s.Equal(1, status.PassB.Total)
	s.Equal(1, status.Evaluation.Total)
}

// TestTranscriptionLights verifies the transcription stage light rules.
func (s *EngineSuite) TestTranscriptionLights() {
	s.Run("all completed is green", func() {
		s.source.SetCalls([]models.Call{participantCall(1)})
		s.source.SetTranscriptions([]models.Transcription{
			{CallID: "call-001", State: models.TranscriptionCompleted},
		})
		s.Equal(models.LightGreen, s.fetch().Transcription.Light)
	})

	s.Run("missing or in flight is yellow", func() {
		s.source.SetCalls([]models.Call{participantCall(1), participantCall(2)})
		s.source.SetTranscriptions([]models.Transcription{
			{CallID: "call-001", State: models.TranscriptionInProgress},
		})
		status := s.fetch()
		s.Equal(models.LightYellow, status.Transcription.Light)
		s.Equal(1, status.Transcription.Missing)
		s.Equal(1, status.Transcription.InProgress)
	})

	s.Run("any error is red", func() {
		s.source.SetCalls([]models.Call{participantCall(1), participantCall(2)})
		s.source.SetTranscriptions([]models.Transcription{
			{CallID: "call-001", State: models.TranscriptionCompleted},
			{CallID: "call-002", State: models.TranscriptionError},
		})
		s.Equal(models.LightRed, s.fetch().Transcription.Light)
	})
}

// TestPassStaleness verifies version comparison and staleness monotonicity
// across a rules bump.
func (s *EngineSuite) TestPassStaleness() {
	s.source.SetCalls([]models.Call{participantCall(1), participantCall(2)})
	s.source.SetTranscriptions([]models.Transcription{
		{CallID: "call-001", State: models.TranscriptionCompleted},
		{CallID: "call-002", State: models.TranscriptionCompleted},
	})
	s.source.SetThematicCodes([]models.ThematicCode{
		{CallID: "call-001", Pass: models.PassA, RulesVersion: 1},
		{CallID: "call-002", Pass: models.PassA, RulesVersion: 1},
	})

	s.Run("codes at current version are fresh", func() {
		status := s.fetch()
		s.Equal(2, status.PassA.Fresh)
		s.Equal(models.LightGreen, status.PassA.Light)
	})

	s.Run("bump makes every code stale and the light red", func() {
		_, err := s.settings.BumpRulesVersion(s.ctx)
		s.Require().NoError(err)

		status := s.fetch()
		s.Equal(2, status.PassA.Stale)
		s.Zero(status.PassA.Fresh)
		s.Equal(models.LightRed, status.PassA.Light)
		s.Equal(2, status.RulesVersion)
		s.assertCounterInvariant(status)
	})

	s.Run("missing without stale is yellow", func() {
		s.source.SetThematicCodes(nil)
		s.Equal(models.LightYellow, s.fetch().PassA.Light)
	})
}

// TestPassEligibility verifies Pass A runs over transcribed calls only while
// Pass B covers every participant call.
func (s *EngineSuite) TestPassEligibility() {
	s.source.SetCalls([]models.Call{participantCall(1), participantCall(2)})
	s.source.SetTranscriptions([]models.Transcription{
		{CallID: "call-001", State: models.TranscriptionCompleted},
	})

	status := s.fetch()
	s.Equal(1, status.PassA.Total)
	s.Equal(2, status.PassB.Total)
}

// TestEvaluationStatus verifies the unconfigured-metric yellow, metric-scoped
// staleness, and queue counters.
func (s *EngineSuite) TestEvaluationStatus() {
	s.source.SetCalls([]models.Call{participantCall(1), participantCall(2)})

	s.Run("no active metric is yellow with zero counters", func() {
		status := s.fetch()
		s.False(status.Evaluation.Configured)
		s.Equal(models.LightYellow, status.Evaluation.Light)
		s.Zero(status.Evaluation.Missing)
		s.Zero(status.Evaluation.Fresh)
	})

	s.Run("scores under another metric are stale", func() {
		s.Require().NoError(s.settings.SetActiveEvaluationMetricID(s.ctx, "metric-new"))
		s.source.SetEvaluationScores([]models.EvaluationScore{
			{CallID: "call-001", MetricID: "metric-old"},
		})

		status := s.fetch()
		s.Equal(1, status.Evaluation.Stale)
		s.Equal(1, status.Evaluation.Missing)
		s.Equal(models.LightYellow, status.Evaluation.Light)
	})

	s.Run("queue counters ignore other metrics and failed turns red", func() {
		s.Require().NoError(s.settings.SetActiveEvaluationMetricID(s.ctx, "metric-new"))
		s.source.SetEvaluationQueue([]models.QueueItem{
			{CallID: "call-001", MetricID: "metric-new", State: models.QueueQueued},
			{CallID: "call-002", MetricID: "metric-new", State: models.QueueFailed},
			{CallID: "call-001", MetricID: "metric-old", State: models.QueueFailed},
		})

		status := s.fetch()
		s.Equal(1, status.Evaluation.Queued)
		s.Equal(1, status.Evaluation.Failed)
		s.Equal(models.LightRed, status.Evaluation.Light)
	})
}

// TestFetchFailure verifies any snapshot failure surfaces as a whole-panel
// error rather than a partial status.
func (s *EngineSuite) TestFetchFailure() {
	failing := &failingSource{InMemorySource: s.source, err: errors.New("backend down")}
	engine, err := NewEngine(failing, s.settings)
	s.Require().NoError(err)

	status, err := engine.FetchStatus(s.ctx)
	s.Nil(status)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Nil(engine.LastStatus())
}

// TestLastStatus verifies the cached status lifecycle.
func (s *EngineSuite) TestLastStatus() {
	s.Nil(s.engine.LastStatus())
	status := s.fetch()
	s.Equal(status, s.engine.LastStatus())
}

type failingSource struct {
	*store.InMemorySource
	err error
}

func (f *failingSource) ListCalls(context.Context) ([]models.Call, error) {
	return nil, f.err
}
