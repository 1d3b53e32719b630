package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)
	store := NewRedisStore(client, time.Hour)

	// nothing stored yet
	_, ok, err := store.Take(ctx, "sid", KeyCaptcha)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "sid", KeyCaptcha, "7"))
	require.NoError(t, store.Set(ctx, "sid", KeyCSRFToken, "csrf"))

	v, ok, err := store.Take(ctx, "sid", KeyCaptcha)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	v, ok, err = store.Take(ctx, "sid", KeyCaptcha)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	// other fields survive the take
	values, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyCSRFToken: "csrf"}, values)
}

func TestRedisStore_ExpiryAndDestroy(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := NewRedisStore(client, time.Minute)

	require.NoError(t, store.Set(ctx, "sid", KeyAdmin, "1"))
	v, ok, err := store.Get(ctx, "sid", KeyAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "sid", KeyAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "other", KeyAdmin, "1"))
	require.NoError(t, store.Destroy(ctx, "other"))
	values, err := store.Load(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRedisNonceStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	nonces := NewRedisNonceStore(client)

	require.NoError(t, nonces.Issue(ctx, "state-1", "sid-1", 10*time.Minute))

	owner, ok, err := nonces.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sid-1", owner)

	owner, ok, err = nonces.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, owner)

	require.NoError(t, nonces.Issue(ctx, "state-2", "sid-1", 10*time.Minute))
	mr.FastForward(11 * time.Minute)
	_, ok, err = nonces.Consume(ctx, "state-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
