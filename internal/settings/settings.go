// Package settings manages the experiment_settings key-value pairs the
// platform consumes. Values are strings in the backend; typed accessors live
// on the service.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/sentinel"
)

// Settings keys.
const (
	KeyRulesVersion   = "thematic_coding_rules_version"
	KeyActiveMetricID = "active_vapi_evaluation_metric_id"
)

// initialRulesVersion is assumed when the setting has never been written.
const initialRulesVersion = 1

// Store is the raw key-value repository. Get returns sentinel.ErrNotFound
// for missing keys; IncrementInt atomically bumps an integer-valued key by 1
// and returns the new value, initializing from initial when absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	IncrementInt(ctx context.Context, key string, initial int) (int, error)
}

// Service exposes typed settings accessors. It implements the pipeline
// engine's SettingsReader and SettingsWriter ports.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "settings store is required")
	}
	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RulesVersion returns the current thematic-coding rules version. A missing
// or malformed setting reads as the initial version.
func (s *Service) RulesVersion(ctx context.Context) (int, error) {
	raw, err := s.store.Get(ctx, KeyRulesVersion)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return initialRulesVersion, nil
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read rules version")
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "malformed rules version setting", "value", raw)
		return initialRulesVersion, nil
	}
	return version, nil
}

// BumpRulesVersion increments the rules version by exactly 1 and returns the
// new value. Irrevocable.
func (s *Service) BumpRulesVersion(ctx context.Context) (int, error) {
	version, err := s.store.IncrementInt(ctx, KeyRulesVersion, initialRulesVersion)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bump rules version")
	}
	return version, nil
}

// ActiveEvaluationMetricID returns the configured metric ID, or "" when no
// metric is active.
func (s *Service) ActiveEvaluationMetricID(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, KeyActiveMetricID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read active metric id")
	}
	return raw, nil
}

// SetActiveEvaluationMetricID switches the active evaluation metric.
func (s *Service) SetActiveEvaluationMetricID(ctx context.Context, metricID string) error {
	if metricID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "metric id is required")
	}
	if err := s.store.Set(ctx, KeyActiveMetricID, metricID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set active metric id")
	}
	return nil
}
