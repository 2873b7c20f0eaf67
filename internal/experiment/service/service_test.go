package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"voxlab/internal/experiment"
	"voxlab/internal/experiment/session"
	"voxlab/internal/experiment/store"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

const testUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type FlowSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	service *Service
}

func (s *FlowSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()

	svc, err := New(s.store)
	s.Require().NoError(err)
	s.service = svc
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) startSession(pid string) *session.State {
	state := session.New(id.ParticipantID(pid), "batch-1", time.Now())
	_, err := s.service.Start(s.ctx, &state)
	s.Require().NoError(err)
	return &state
}

func (s *FlowSuite) demographics() experiment.Demographics {
	return experiment.Demographics{
		Age:            28,
		Gender:         "female",
		Education:      "bachelor",
		NativeLanguage: "dutch",
		EnglishLevel:   "C1",
	}
}

func (s *FlowSuite) answers() []experiment.Answer {
	return []experiment.Answer{
		{Scale: "godspeed", Item: "anthropomorphism_1", Value: 4},
		{Scale: "godspeed", Item: "likeability_1", Value: 6},
	}
}

// TestStart verifies participant ID validation, the conflict on a duplicate
// participant, and the researcher-mode bypass.
func (s *FlowSuite) TestStart() {
	s.Run("eight character id starts at welcome", func() {
		state := s.startSession("AB12CD34")
		s.Equal(experiment.StepWelcome, state.Step)
		s.False(state.ResponseID.IsNil())
	})

	s.Run("wrong length id is rejected", func() {
		state := session.New("SHORT", "", time.Now())
		_, err := s.service.Start(s.ctx, &state)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("duplicate participant conflicts", func() {
		state := session.New("AB12CD34", "", time.Now())
		_, err := s.service.Start(s.ctx, &state)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("researcher mode skips the shape check", func() {
		state := session.New("researcher-test", "", time.Now())
		state.ResearcherMode = true
		resp, err := s.service.Start(s.ctx, &state)
		s.Require().NoError(err)
		s.Equal(id.ParticipantID("researcher-test"), resp.ParticipantID)
	})
}

// TestFullFlow walks the whole flow in order and verifies every accumulated
// field on the final response.
func (s *FlowSuite) TestFullFlow() {
	state := s.startSession("AB12CD34")

	_, err := s.service.Consent(s.ctx, state)
	s.Require().NoError(err)
	s.Equal(experiment.StepConsent, state.Step)

	_, err = s.service.SaveDemographics(s.ctx, state, s.demographics(), testUA)
	s.Require().NoError(err)

	_, err = s.service.AttachCall(s.ctx, state, "call-abc-123")
	s.Require().NoError(err)

	_, err = s.service.SaveAnswers(s.ctx, state, s.answers())
	s.Require().NoError(err)

	resp, err := s.service.Finish(s.ctx, state)
	s.Require().NoError(err)

	s.Equal(experiment.StepComplete, resp.Step)
	s.Equal(experiment.StepComplete, state.Step)
	s.True(resp.Completed())
	s.Require().NotNil(resp.ConsentedAt)
	s.Require().NotNil(resp.CompletedAt)
	s.Require().NotNil(resp.Demographics)
	s.Equal(28, resp.Demographics.Age)
	s.Equal("Chrome", resp.Demographics.Device.Browser)
	s.Equal(id.CallID("call-abc-123"), resp.CallID)
	s.Len(resp.Answers, 2)
}

// TestStepOrder verifies skipping ahead and repeating a step are both
// rejected, and that a rejected advance leaves the stored row untouched.
func (s *FlowSuite) TestStepOrder() {
	state := s.startSession("AB12CD34")

	s.Run("cannot skip consent", func() {
		_, err := s.service.SaveDemographics(s.ctx, state, s.demographics(), testUA)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Equal(experiment.StepWelcome, state.Step)
	})

	s.Run("cannot answer before the conversation", func() {
		_, err := s.service.SaveAnswers(s.ctx, state, s.answers())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("cannot consent twice", func() {
		_, err := s.service.Consent(s.ctx, state)
		s.Require().NoError(err)
		_, err = s.service.Consent(s.ctx, state)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejected advance does not persist", func() {
		resp, err := s.service.Get(s.ctx, state.ResponseID)
		s.Require().NoError(err)
		s.Equal(experiment.StepConsent, resp.Step)
		s.Nil(resp.Demographics)
	})

	s.Run("session without a response is rejected", func() {
		fresh := session.New("ZZ99YY88", "", time.Now())
		_, err := s.service.Consent(s.ctx, &fresh)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// TestInputValidation verifies the field-level bounds on demographics,
// answers, and the call attachment.
func (s *FlowSuite) TestInputValidation() {
	state := s.startSession("AB12CD34")
	_, err := s.service.Consent(s.ctx, state)
	s.Require().NoError(err)

	s.Run("age below range", func() {
		demo := s.demographics()
		demo.Age = 15
		_, err := s.service.SaveDemographics(s.ctx, state, demo, testUA)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("age above range", func() {
		demo := s.demographics()
		demo.Age = 121
		_, err := s.service.SaveDemographics(s.ctx, state, demo, testUA)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Require().NoError(s.advanceDemographics(state))

	s.Run("blank call id", func() {
		_, err := s.service.AttachCall(s.ctx, state, "   ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	_, err = s.service.AttachCall(s.ctx, state, "call-1")
	s.Require().NoError(err)

	s.Run("empty answer set", func() {
		_, err := s.service.SaveAnswers(s.ctx, state, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("value outside the Likert scale", func() {
		_, err := s.service.SaveAnswers(s.ctx, state, []experiment.Answer{
			{Scale: "godspeed", Item: "x", Value: 8},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.service.SaveAnswers(s.ctx, state, []experiment.Answer{
			{Scale: "godspeed", Item: "x", Value: 0},
		})
		s.Require().Error(err)
	})

	s.Run("answer missing scale or item", func() {
		_, err := s.service.SaveAnswers(s.ctx, state, []experiment.Answer{
			{Scale: "", Item: "x", Value: 3},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// TestResume verifies an interrupted participant can be looked up again.
func (s *FlowSuite) TestResume() {
	state := s.startSession("AB12CD34")
	_, err := s.service.Consent(s.ctx, state)
	s.Require().NoError(err)

	resp, err := s.service.GetByParticipant(s.ctx, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(state.ResponseID, resp.ID)
	s.Equal(experiment.StepConsent, resp.Step)

	_, err = s.service.GetByParticipant(s.ctx, "NO12SUCH")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestListAndBatches verifies dashboard filtering and the batch selector.
func (s *FlowSuite) TestListAndBatches() {
	first := session.New("AB12CD34", "batch-1", time.Now())
	_, err := s.service.Start(s.ctx, &first)
	s.Require().NoError(err)

	second := session.New("EF56GH78", "batch-2", time.Now())
	_, err = s.service.Start(s.ctx, &second)
	s.Require().NoError(err)

	s.Run("filter by batch label", func() {
		responses, err := s.service.List(s.ctx, experiment.Filter{BatchLabel: "batch-2"})
		s.Require().NoError(err)
		s.Require().Len(responses, 1)
		s.Equal(id.ParticipantID("EF56GH78"), responses[0].ParticipantID)
	})

	s.Run("unknown step filter is rejected", func() {
		_, err := s.service.List(s.ctx, experiment.Filter{Step: "lunch"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("batch labels are distinct", func() {
		labels, err := s.service.BatchLabels(s.ctx)
		s.Require().NoError(err)
		s.ElementsMatch([]string{"batch-1", "batch-2"}, labels)
	})
}

// advanceDemographics moves a consented session past the demographics step.
func (s *FlowSuite) advanceDemographics(state *session.State) error {
	_, err := s.service.SaveDemographics(s.ctx, state, s.demographics(), testUA)
	return err
}
