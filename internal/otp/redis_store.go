package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "otp"}
}

func (s *RedisStore) key(purpose Purpose, phone string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, purpose, phone)
}

// Save sobrescreve o código anterior; o TTL do Redis faz a expiração.
func (s *RedisStore) Save(ctx context.Context, purpose Purpose, phone, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(purpose, phone), code, ttl).Err()
}

func (s *RedisStore) Latest(ctx context.Context, purpose Purpose, phone string) (string, error) {
	code, err := s.rdb.Get(ctx, s.key(purpose, phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Consume(ctx context.Context, purpose Purpose, phone string) error {
	return s.rdb.Del(ctx, s.key(purpose, phone)).Err()
}

var _ Store = (*RedisStore)(nil)
