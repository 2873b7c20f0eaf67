// Package service handles researcher login. Password checks go through
// bcrypt; a successful login returns a signed access token.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"voxlab/internal/researcher"
	"voxlab/internal/researcher/store"
	"voxlab/internal/researcher/token"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
	"voxlab/pkg/platform/sentinel"
	"voxlab/pkg/requestcontext"
)

type Service struct {
	store  store.Store
	tokens *token.JWTService
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(st store.Store, tokens *token.JWTService, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("researcher store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	svc := &Service{store: st, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*researcher.Researcher, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a valid email is required")
	}
	if len(password) < 12 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 12 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	r := &researcher.Researcher{
		ID:           id.ResearcherID(uuid.New()),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create researcher")
	}
	return r, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password return the same error so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*researcher.TokenPair, error) {
	r, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load researcher")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := requestcontext.Now(ctx)
	accessToken, err := s.tokens.GenerateAccessToken(r.ID, r.Email, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	if err := s.store.RecordLogin(ctx, r.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to record login", "error", err)
	}
	return &researcher.TokenPair{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.tokens.TokenTTL()).UTC(),
	}, nil
}

// Profile returns the account behind a researcher ID, for the dashboard header.
func (s *Service) Profile(ctx context.Context, rid id.ResearcherID) (*researcher.Researcher, error) {
	if rid.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}
	r, err := s.store.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "researcher not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load researcher")
	}
	return r, nil
}
