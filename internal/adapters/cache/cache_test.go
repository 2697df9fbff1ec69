package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/geocurrency/internal/adapters/cache"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ batch.Cache = (*cache.MemoryCache)(nil)
	_ batch.Cache = (*cache.RedisCache)(nil)
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(2, time.Hour)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	// per entry ttl shorter than the cache-wide one
	require.NoError(t, c.Set(ctx, "short", []byte("2"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx, "a"))
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(2, time.Hour)
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisCache(ctx, "redis://"+mr.Addr(), "geo:")
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"id":"k"}`), time.Minute))
	assert.True(t, mr.Exists("geo:k"))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"k"}`, string(v))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "d", []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, "d"))
	assert.False(t, mr.Exists("geo:d"))
}

func TestRedisCacheBadURL(t *testing.T) {
	_, err := cache.NewRedisCache(context.Background(), "nope://", "")
	assert.Error(t, err)
}
