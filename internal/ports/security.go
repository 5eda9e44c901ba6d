package ports

import (
	"time"

	"github.com/google/uuid"
)

type AuthClaims struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Email      string
	Role       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}
