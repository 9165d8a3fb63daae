package redisad

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tourism_booking/internal/domain"
)

const sessionPrefix = "admin_session:"

// Sessions stores live admin session ids; a token is honoured only while its key exists.
type Sessions struct{ c *redis.Client }

func NewSessions(c *redis.Client) *Sessions { return &Sessions{c: c} }

func (s *Sessions) Put(ctx context.Context, tokenID string, adminID int64, ttl time.Duration) error {
	return s.c.Set(ctx, sessionPrefix+tokenID, adminID, ttl).Err()
}

func (s *Sessions) Lookup(ctx context.Context, tokenID string) (int64, error) {
	v, err := s.c.Get(ctx, sessionPrefix+tokenID).Result()
	if err == redis.Nil {
		return 0, domain.ErrUnauthorized
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}

func (s *Sessions) Delete(ctx context.Context, tokenID string) error {
	return s.c.Del(ctx, sessionPrefix+tokenID).Err()
}
