// Package ratelimit implements per-key fixed-window counters.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Limit  int           // requests per window
	Window time.Duration // window length
}

func PerMinute(limit int) Config {
	return Config{Limit: limit, Window: time.Minute}
}
