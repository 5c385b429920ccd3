package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/constants"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, New(nil, 0)} {
		assert.False(t, c.Enabled())

		var out []int
		assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrMiss)
		assert.NoError(t, c.Set(ctx, "k", []int{1}))
		assert.NoError(t, c.Invalidate(ctx))
		assert.NoError(t, c.Close())
	}
}

func TestTrendKey(t *testing.T) {
	c := New(nil, time.Minute)
	key := c.TrendKey("2024-03-10", 21, false)
	assert.Equal(t, constants.TrendsCachePrefix+"daily:2024-03-10:21:false", key)
	assert.NotEqual(t, key, c.TrendKey("2024-03-10", 21, true))
}

func TestUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	c := New(client, time.Minute)
	defer c.Close()

	var out []int
	err := c.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))
	assert.Error(t, c.Set(context.Background(), "k", []int{1}))
}

func TestRoundTripInMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer c.Close()
	require.True(t, c.Enabled())

	key := c.TrendKey("2024-03-10", 3, true)
	require.NoError(t, c.Set(ctx, key, []int{1, 2, 3}))
	assert.Equal(t, time.Minute, mr.TTL(key))

	var got []int
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, []int{1, 2, 3}, got)

	require.NoError(t, mr.Set("unrelated", "x"))
	require.NoError(t, c.Invalidate(ctx))
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
	assert.True(t, mr.Exists("unrelated"))
}

// Set REDIS_TEST_ADDR to run against a live server.
func TestRoundTripLive(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	c := New(client, time.Minute)
	defer c.Close()

	key := c.TrendKey("2024-03-10", 3, false)
	require.NoError(t, c.Set(ctx, key, []int{1, 2, 3}))

	var got []int
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, []int{1, 2, 3}, got)

	require.NoError(t, c.Invalidate(ctx))
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
}
