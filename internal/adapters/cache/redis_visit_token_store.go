package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/ports"
	"github.com/redis/go-redis/v9"
)

// RedisVisitTokenStore holds one-time QR visit tokens. GETDEL makes the
// redeem atomic so two scans of the same code cannot both succeed.
type RedisVisitTokenStore struct {
	client *redis.Client
}

func NewRedisVisitTokenStore(client *redis.Client) *RedisVisitTokenStore {
	return &RedisVisitTokenStore{client: client}
}

func (s *RedisVisitTokenStore) Issue(ctx context.Context, token string, businessID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, "loyalty:visit-token:"+token, businessID.String(), ttl).Err()
}

func (s *RedisVisitTokenStore) Redeem(ctx context.Context, token string) (uuid.UUID, bool, error) {
	raw, err := s.client.GetDel(ctx, "loyalty:visit-token:"+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	businessID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return businessID, true, nil
}

var _ ports.VisitTokenStore = (*RedisVisitTokenStore)(nil)
