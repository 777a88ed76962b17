package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/creamtown0420/ow-guides/internal/domain"
)

const sessionPrefix = "session:"

// RedisSessionStore keeps session tokens in redis with a TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Create mints a new opaque session token for the user.
func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a session token back to its user id.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionPrefix+token).Result()
	if err == redis.Nil {
		return "", domain.NotFoundError{Resource: "session"}
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Delete revokes a session token. Deleting an unknown token is a no-op.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	err := s.rdb.Del(ctx, sessionPrefix+token).Err()
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}
