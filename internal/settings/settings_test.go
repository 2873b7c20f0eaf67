package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	settingsstore "voxlab/internal/settings/store"
	dErrors "voxlab/pkg/domain-errors"
)

type SettingsSuite struct {
	suite.Suite
	ctx     context.Context
	store   *settingsstore.InMemoryStore
	service *Service
}

func (s *SettingsSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = settingsstore.NewInMemory()

	svc, err := New(s.store)
	s.Require().NoError(err)
	s.service = svc
}

func TestSettingsSuite(t *testing.T) {
	suite.Run(t, new(SettingsSuite))
}

// TestRulesVersion verifies the initial-version fallback for missing and
// malformed values and the read-back after a write.
func (s *SettingsSuite) TestRulesVersion() {
	s.Run("missing reads as the initial version", func() {
		version, err := s.service.RulesVersion(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, version)
	})

	s.Run("malformed reads as the initial version", func() {
		s.Require().NoError(s.store.Set(s.ctx, KeyRulesVersion, "banana"))
		version, err := s.service.RulesVersion(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, version)
	})

	s.Run("stored value wins", func() {
		s.Require().NoError(s.store.Set(s.ctx, KeyRulesVersion, "7"))
		version, err := s.service.RulesVersion(s.ctx)
		s.Require().NoError(err)
		s.Equal(7, version)
	})
}

// TestBumpRulesVersion verifies the bump increments by exactly one, starting
// from the initial version when the setting was never written.
func (s *SettingsSuite) TestBumpRulesVersion() {
	version, err := s.service.BumpRulesVersion(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, version)

	version, err = s.service.BumpRulesVersion(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, version)

	read, err := s.service.RulesVersion(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, read)
}

// TestActiveEvaluationMetric verifies the unconfigured empty-string default,
// the required-id validation, and the round trip.
func (s *SettingsSuite) TestActiveEvaluationMetric() {
	s.Run("unset reads as empty", func() {
		metricID, err := s.service.ActiveEvaluationMetricID(s.ctx)
		s.Require().NoError(err)
		s.Empty(metricID)
	})

	s.Run("empty id is rejected", func() {
		err := s.service.SetActiveEvaluationMetricID(s.ctx, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("round trip", func() {
		s.Require().NoError(s.service.SetActiveEvaluationMetricID(s.ctx, "metric-123"))
		metricID, err := s.service.ActiveEvaluationMetricID(s.ctx)
		s.Require().NoError(err)
		s.Equal("metric-123", metricID)
	})
}

// TestStoreFailure verifies backend failures surface as internal errors
// rather than falling back to defaults.
func (s *SettingsSuite) TestStoreFailure() {
	svc, err := New(&failingStore{err: errors.New("connection refused")})
	s.Require().NoError(err)

	_, err = svc.RulesVersion(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.ActiveEvaluationMetricID(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) (string, error) { return "", f.err }

func (f *failingStore) Set(context.Context, string, string) error { return f.err }

func (f *failingStore) IncrementInt(context.Context, string, int) (int, error) { return 0, f.err }
