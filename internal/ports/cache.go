package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// VisitTokenStore holds short-lived one-time QR tokens that map back to the
// issuing business. Redeem consumes the token.
type VisitTokenStore interface {
	Issue(ctx context.Context, token string, businessID uuid.UUID, ttl time.Duration) error
	Redeem(ctx context.Context, token string) (uuid.UUID, bool, error)
}
