package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

const redisKeyPrefix = "otp:challenge:"

// RedisStore keeps challenges in Redis with a server-side TTL, so expired
// entries vanish without a sweeper and challenges survive process restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Ping checks Redis connectivity. Satisfies health.Pinger.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Put(ctx context.Context, identity string, ch Challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		// Already expired; storing it would be a no-op with any TTL.
		return s.Delete(ctx, identity)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+identity, data, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, identity string) (Challenge, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+identity).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, domain.ErrOTPNotFound
		}
		return Challenge{}, fmt.Errorf("fetch challenge: %w", err)
	}

	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		// Corrupted entry, treat as absent.
		return Challenge{}, domain.ErrOTPNotFound
	}
	return ch, nil
}

func (s *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
