package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindow_LimitAndReset(t *testing.T) {
	ctx := context.Background()
	limiter := NewFixedWindow(PerMinute(5))
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	// other clients have their own window
	ok, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
}
