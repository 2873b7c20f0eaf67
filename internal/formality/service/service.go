// Package service orchestrates formality scoring: run the pure scorer,
// persist the immutable calculation, emit the audit trail.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voxlab/internal/formality"
	formalitymetrics "voxlab/internal/formality/metrics"
	"voxlab/internal/formality/store"
	"voxlab/internal/formality/tagger"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/audit"
	"voxlab/pkg/platform/sentinel"
)

type Service struct {
	scorer  *formality.Scorer
	store   store.Store
	logger  *slog.Logger
	metrics *formalitymetrics.Metrics
	audit   audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *formalitymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func WithTagger(t tagger.Tagger) Option {
	return func(s *Service) { s.scorer = formality.NewScorer(t) }
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("calculation store is required")
	}
	svc := &Service{
		store:  st,
		scorer: formality.NewScorer(nil),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Score runs the full pipeline over a transcript and persists the result.
// Zero-token input returns CodeInvalidInput without persisting anything.
func (s *Service) Score(ctx context.Context, text string, opts formality.Options) (*formality.Calculation, error) {
	calc, err := s.scorer.ScoreTranscript(text, opts)
	if err != nil {
		if errors.Is(err, formality.ErrNoTokens) && s.metrics != nil {
			s.metrics.IncrementZeroTokenInputs()
		}
		return nil, err
	}

	if err := s.store.Create(ctx, calc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store calculation")
	}

	if s.metrics != nil {
		s.metrics.ObserveCalculation(calc.FScore)
	}
	audit.Log(ctx, s.logger, s.audit, audit.EventCalculationStored,
		calc.ID.String(), fmt.Sprintf("f_score=%d total_tokens=%d", calc.FScore, calc.TotalTokens))

	return calc, nil
}

// Get retrieves one stored calculation.
func (s *Service) Get(ctx context.Context, calcID id.CalculationID) (*formality.Calculation, error) {
	if calcID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "calculation id is required")
	}
	calc, err := s.store.FindByID(ctx, calcID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "calculation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load calculation")
	}
	return calc, nil
}

// Breakdown builds the colorized view model for one stored calculation.
func (s *Service) Breakdown(ctx context.Context, calcID id.CalculationID, vis formality.Visibility) (formality.View, error) {
	calc, err := s.Get(ctx, calcID)
	if err != nil {
		return formality.View{}, err
	}
	return formality.Render(calc, vis), nil
}

// ListByCall returns the calculations stored for one call, newest first.
func (s *Service) ListByCall(ctx context.Context, callID id.CallID) ([]*formality.Calculation, error) {
	if callID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "call id is required")
	}
	calcs, err := s.store.ListByCall(ctx, callID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list calculations")
	}
	return calcs, nil
}

// List pages through all stored calculations, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*formality.Calculation, error) {
	calcs, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list calculations")
	}
	return calcs, nil
}
