package token

import (
	"voxlab/internal/platform/middleware"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// MiddlewareAdapter exposes JWTService through the shape the HTTP auth
// middleware expects.
type MiddlewareAdapter struct {
	service *JWTService
}

func NewMiddlewareAdapter(service *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	rid, err := id.ParseResearcherID(claims.ResearcherID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.JWTClaims{ResearcherID: rid, Email: claims.Email}, nil
}
