// Package researcher covers dashboard accounts: credential checks and the
// tokens that gate researcher routes.
package researcher

import (
	"time"

	id "voxlab/pkg/domain"
)

type Researcher struct {
	ID           id.ResearcherID `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty"`
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
