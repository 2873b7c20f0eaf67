package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"voxlab/internal/researcher/store"
	"voxlab/internal/researcher/token"
	dErrors "voxlab/pkg/domain-errors"
)

const testPassword = "correct horse battery"

type AuthSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	service *Service
}

func (s *AuthSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()

	svc, err := New(s.store, token.NewJWTService("test-signing-key", time.Hour))
	s.Require().NoError(err)
	s.service = svc
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

// TestRegister verifies email normalization, the password length floor, and
// the duplicate-email conflict.
func (s *AuthSuite) TestRegister() {
	s.Run("email is lowercased and trimmed", func() {
		r, err := s.service.Register(s.ctx, "  Ada@Example.ORG ", "Ada", testPassword)
		s.Require().NoError(err)
		s.Equal("ada@example.org", r.Email)
		s.NotEqual(testPassword, r.PasswordHash)
	})

	s.Run("duplicate email conflicts regardless of case", func() {
		_, err := s.service.Register(s.ctx, "ADA@example.org", "Ada", testPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("short password is rejected", func() {
		_, err := s.service.Register(s.ctx, "b@example.org", "B", "elevenchars")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("address without an at sign is rejected", func() {
		_, err := s.service.Register(s.ctx, "not-an-email", "C", testPassword)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// TestLogin verifies token issuance and that unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthSuite) TestLogin() {
	registered, err := s.service.Register(s.ctx, "ada@example.org", "Ada", testPassword)
	s.Require().NoError(err)

	s.Run("valid credentials return a bearer token", func() {
		pair, err := s.service.Login(s.ctx, "ada@example.org", testPassword)
		s.Require().NoError(err)
		s.Equal("Bearer", pair.TokenType)
		s.NotEmpty(pair.AccessToken)
		s.True(pair.ExpiresAt.After(time.Now()))
	})

	s.Run("login stamps last login", func() {
		r, err := s.store.FindByID(s.ctx, registered.ID)
		s.Require().NoError(err)
		s.NotNil(r.LastLoginAt)
	})

	s.Run("unknown email and wrong password read the same", func() {
		_, unknownErr := s.service.Login(s.ctx, "nobody@example.org", testPassword)
		s.Require().Error(unknownErr)
		s.True(dErrors.HasCode(unknownErr, dErrors.CodeUnauthorized))

		_, wrongErr := s.service.Login(s.ctx, "ada@example.org", "wrong password!!")
		s.Require().Error(wrongErr)
		s.True(dErrors.HasCode(wrongErr, dErrors.CodeUnauthorized))

		s.Equal(unknownErr.Error(), wrongErr.Error())
	})
}

// TestProfile verifies the lookup behind the dashboard header.
func (s *AuthSuite) TestProfile() {
	registered, err := s.service.Register(s.ctx, "ada@example.org", "Ada", testPassword)
	s.Require().NoError(err)

	r, err := s.service.Profile(s.ctx, registered.ID)
	s.Require().NoError(err)
	s.Equal("Ada", r.Name)
}
