package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisFixedWindow shares counters between instances with INCR + EXPIRE.
type RedisFixedWindow struct {
	Config
	client *redis.Client
	prefix string
}

func NewRedisFixedWindow(client *redis.Client, name string, cfg Config) *RedisFixedWindow {
	return &RedisFixedWindow{
		Config: cfg,
		client: client,
		prefix: fmt.Sprintf("ratelimit:%s:", name),
	}
}

func (w *RedisFixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	k := w.prefix + key

	count, err := w.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment counter: %w", err)
	}
	if count == 1 {
		if err := w.client.Expire(ctx, k, w.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}
	return count <= int64(w.Limit), nil
}
