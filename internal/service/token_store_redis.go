package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTokenPrefix = "blog:token:"

// RedisTokenStore keeps token hashes as redis keys holding the user id.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenStore wraps an existing client; ttl <= 0 stores keys without expiry.
func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisTokenStore{client: client, ttl: ttl}
}

func (s *RedisTokenStore) Issue(ctx context.Context, userID uint, _ string) (string, error) {
	plain := newPlainToken()
	if err := s.client.Set(ctx, redisTokenKey(plain), strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return plain, nil
}

func (s *RedisTokenStore) Resolve(ctx context.Context, token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}
	val, err := s.client.Get(ctx, redisTokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisTokenKey(strings.TrimSpace(token))).Err()
}

func redisTokenKey(token string) string {
	return redisTokenPrefix + hashToken(token)
}
