package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRepository(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheRepository(time.Minute, time.Minute)

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "reports:stats", []byte(`{"a":1}`), time.Minute))
	val, err := cache.Get(ctx, "reports:stats")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, val)

	require.NoError(t, cache.Del(ctx, "reports:stats"))
	_, err = cache.Get(ctx, "reports:stats")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheRepository_Incr(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheRepository(time.Minute, time.Minute)

	n, err := cache.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = cache.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	val, err := cache.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestMemoryCacheRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheRepository(time.Minute, time.Minute)

	require.NoError(t, cache.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := cache.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
