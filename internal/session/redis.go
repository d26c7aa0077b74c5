package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/medetbek/taskplanner/internal/security"
)

const keyPrefix = "sess:"

// RedisStore keeps sessions as sess:<token> → userID with the TTL enforced
// by redis key expiry.
type RedisStore struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedis(addr string, ttl time.Duration) *RedisStore {
	return &RedisStore{c: redis.NewClient(&redis.Options{Addr: addr}), ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	tok, err := security.NewSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.c.Set(ctx, keyPrefix+tok, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	v, err := s.c.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.c.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) Close() error { return s.c.Close() }
