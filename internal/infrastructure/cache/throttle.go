package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderThrottle rate-limits recurring notifications per key. Acquire
// returns true when the caller won the window and may send; subsequent
// calls within the TTL return false.
type ReminderThrottle interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Close() error
}

// RedisThrottle implements ReminderThrottle on Redis. Suitable for
// multi-instance deployments where the throttle window must be shared.
type RedisThrottle struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisThrottle creates a Redis-backed throttle and verifies the connection
func NewRedisThrottle(addr, password string, db int) (*RedisThrottle, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisThrottle{
		client:    client,
		keyPrefix: "notify:throttle:",
	}, nil
}

// NewRedisThrottleWithClient creates a throttle with an existing Redis client
func NewRedisThrottleWithClient(client *redis.Client, keyPrefix string) *RedisThrottle {
	if keyPrefix == "" {
		keyPrefix = "notify:throttle:"
	}
	return &RedisThrottle{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire claims the throttle window with an atomic SETNX
func (t *RedisThrottle) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire throttle window: %w", err)
	}
	return ok, nil
}

// Close closes the Redis client
func (t *RedisThrottle) Close() error {
	return t.client.Close()
}

var _ ReminderThrottle = (*RedisThrottle)(nil)
