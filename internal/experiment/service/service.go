// Package service drives the participant flow. Every operation takes the
// explicit session state; step ordering is enforced there, so a participant
// cannot submit questionnaire answers before consenting.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"voxlab/internal/experiment"
	experimentmetrics "voxlab/internal/experiment/metrics"
	"voxlab/internal/experiment/session"
	"voxlab/internal/experiment/store"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/audit"
	"voxlab/pkg/platform/sentinel"
	"voxlab/pkg/requestcontext"
)

// Likert bounds for questionnaire items.
const (
	minAnswerValue = 1
	maxAnswerValue = 7
)

type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *experimentmetrics.ExperimentMetrics
	audit   audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *experimentmetrics.ExperimentMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("response store is required")
	}
	svc := &Service{store: st}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Start creates the participant's response row and binds it to the session.
// Researcher-mode sessions skip the participant ID shape check; their calls
// are excluded from pipeline totals by the same length rule later.
func (s *Service) Start(ctx context.Context, state *session.State) (*experiment.Response, error) {
	if !state.ResearcherMode {
		if _, err := id.ParseParticipantID(string(state.ParticipantID)); err != nil {
			return nil, err
		}
	}
	if state.ParticipantID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "participant id is required")
	}

	now := requestcontext.Now(ctx)
	resp := &experiment.Response{
		ID:            id.ResponseID(uuid.New()),
		ParticipantID: state.ParticipantID,
		BatchLabel:    state.BatchLabel,
		Step:          experiment.StepWelcome,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, resp); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"participant %s already has a response", state.ParticipantID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create response")
	}

	state.ResponseID = resp.ID
	state.Step = resp.Step
	s.metrics.IncrementStarted()
	audit.Log(ctx, s.logger, s.audit, audit.EventResponseCreated,
		resp.ID.String(), string(resp.ParticipantID))
	return resp, nil
}

// Consent stamps the consent time and moves the session past the consent step.
func (s *Service) Consent(ctx context.Context, state *session.State) (*experiment.Response, error) {
	return s.advance(ctx, state, experiment.StepConsent, func(resp *experiment.Response) error {
		now := requestcontext.Now(ctx)
		resp.ConsentedAt = &now
		return nil
	})
}

// SaveDemographics records the demographics form plus the parsed device
// summary from the raw User-Agent header.
func (s *Service) SaveDemographics(ctx context.Context, state *session.State, demo experiment.Demographics, rawUA string) (*experiment.Response, error) {
	if demo.Age < 16 || demo.Age > 120 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "age %d out of range", demo.Age)
	}
	return s.advance(ctx, state, experiment.StepDemographics, func(resp *experiment.Response) error {
		demo.Device = experiment.ParseDevice(rawUA)
		resp.Demographics = &demo
		return nil
	})
}

// AttachCall links the voice conversation's call record to the response.
func (s *Service) AttachCall(ctx context.Context, state *session.State, callID id.CallID) (*experiment.Response, error) {
	if strings.TrimSpace(string(callID)) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "call id is required")
	}
	return s.advance(ctx, state, experiment.StepConversation, func(resp *experiment.Response) error {
		resp.CallID = callID
		return nil
	})
}

// SaveAnswers records the closing questionnaire. Values are bounded by the
// Likert scale; an empty answer set is rejected.
func (s *Service) SaveAnswers(ctx context.Context, state *session.State, answers []experiment.Answer) (*experiment.Response, error) {
	if len(answers) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one answer is required")
	}
	for _, a := range answers {
		if a.Scale == "" || a.Item == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "answer scale and item are required")
		}
		if a.Value < minAnswerValue || a.Value > maxAnswerValue {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput,
				"answer value %d outside %d..%d", a.Value, minAnswerValue, maxAnswerValue)
		}
	}
	return s.advance(ctx, state, experiment.StepQuestionnaire, func(resp *experiment.Response) error {
		resp.Answers = answers
		return nil
	})
}

// Finish closes out the flow: debrief shown, response marked complete.
func (s *Service) Finish(ctx context.Context, state *session.State) (*experiment.Response, error) {
	resp, err := s.advance(ctx, state, experiment.StepDebrief, nil)
	if err != nil {
		return nil, err
	}
	resp, err = s.advance(ctx, state, experiment.StepComplete, func(resp *experiment.Response) error {
		now := requestcontext.Now(ctx)
		resp.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementCompleted()
	return resp, nil
}

// Get returns one response for the dashboard detail view.
func (s *Service) Get(ctx context.Context, respID id.ResponseID) (*experiment.Response, error) {
	if respID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "response id is required")
	}
	resp, err := s.store.FindByID(ctx, respID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "response not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load response")
	}
	return resp, nil
}

// GetByParticipant resumes an interrupted session from a participant ID.
func (s *Service) GetByParticipant(ctx context.Context, pid id.ParticipantID) (*experiment.Response, error) {
	resp, err := s.store.FindByParticipant(ctx, pid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "response not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load response")
	}
	return resp, nil
}

// List returns responses for the dashboard participant table.
func (s *Service) List(ctx context.Context, filter experiment.Filter) ([]*experiment.Response, error) {
	if filter.Step != "" && !filter.Step.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown step %q", filter.Step)
	}
	responses, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	return responses, nil
}

// BatchLabels backs the dashboard batch selector.
func (s *Service) BatchLabels(ctx context.Context) ([]string, error) {
	labels, err := s.store.BatchLabels(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list batch labels")
	}
	return labels, nil
}

// advance loads the session's response, checks the step transition, applies
// the mutation, and persists. The session step is updated only after the
// store accepts the row.
func (s *Service) advance(ctx context.Context, state *session.State, to experiment.Step, mutate func(*experiment.Response) error) (*experiment.Response, error) {
	if state.ResponseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session has no response; start the flow first")
	}
	resp, err := s.Get(ctx, state.ResponseID)
	if err != nil {
		return nil, err
	}
	if to != resp.Step.Next() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"cannot advance from %q to %q", resp.Step, to)
	}
	if mutate != nil {
		if err := mutate(resp); err != nil {
			return nil, err
		}
	}
	resp.Step = to
	resp.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, resp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update response")
	}
	// The stored row is the source of truth; resync the session to it.
	state.Step = resp.Step
	s.metrics.ObserveAdvance(string(to))
	return resp, nil
}
