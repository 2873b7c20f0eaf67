package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

type JWTSuite struct {
	suite.Suite
	service *JWTService
	rid     id.ResearcherID
}

func (s *JWTSuite) SetupTest() {
	s.service = NewJWTService("test-signing-key", time.Hour)
	s.rid = id.ResearcherID(uuid.New())
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTSuite))
}

// TestRoundTrip verifies a freshly issued token validates and carries the
// researcher identity.
func (s *JWTSuite) TestRoundTrip() {
	tokenString, err := s.service.GenerateAccessToken(s.rid, "a@example.org", time.Now())
	s.Require().NoError(err)
	s.NotEmpty(tokenString)

	claims, err := s.service.ValidateToken(tokenString)
	s.Require().NoError(err)
	s.Equal(s.rid.String(), claims.ResearcherID)
	s.Equal("a@example.org", claims.Email)
	s.Equal("voxlab", claims.Issuer)
	s.NotEmpty(claims.ID)
}

// TestExpired verifies an expired token is rejected with a distinct message.
func (s *JWTSuite) TestExpired() {
	issued := time.Now().Add(-2 * time.Hour)
	tokenString, err := s.service.GenerateAccessToken(s.rid, "a@example.org", issued)
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(tokenString)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Contains(err.Error(), "expired")
}

// TestWrongKey verifies tokens signed under a different key are rejected.
func (s *JWTSuite) TestWrongKey() {
	other := NewJWTService("other-signing-key", time.Hour)
	tokenString, err := other.GenerateAccessToken(s.rid, "a@example.org", time.Now())
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(tokenString)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

// TestGarbageToken verifies malformed input never validates.
func (s *JWTSuite) TestGarbageToken() {
	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := s.service.ValidateToken(tokenString)
		s.Require().Error(err, tokenString)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}

// TestMiddlewareAdapter verifies the claim mapping into the HTTP auth layer.
func (s *JWTSuite) TestMiddlewareAdapter() {
	adapter := NewMiddlewareAdapter(s.service)

	tokenString, err := s.service.GenerateAccessToken(s.rid, "a@example.org", time.Now())
	s.Require().NoError(err)

	claims, err := adapter.ValidateToken(tokenString)
	s.Require().NoError(err)
	s.Equal(s.rid, claims.ResearcherID)
	s.Equal("a@example.org", claims.Email)
}
