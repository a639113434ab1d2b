package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter, err := NewFixedWindowLimiter(client, "test", 2, time.Minute)
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 12, 0, 5, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "signin:1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "signin:1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "signin:1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "signin:5.6.7.8"), "keys are independent")

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow(ctx, "signin:1.2.3.4"), "next window resets")
}

func TestFixedWindowLimiterFailsClosed(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter, err := NewFixedWindowLimiter(client, "", 5, time.Minute)
	require.NoError(t, err)
	mr.Close()

	assert.False(t, limiter.Allow(context.Background(), "k"))
}

func TestNewFixedWindowLimiterValidates(t *testing.T) {
	_, err := NewFixedWindowLimiter(nil, "x", 1, time.Minute)
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	_, err = NewFixedWindowLimiter(client, "x", 0, time.Minute)
	assert.Error(t, err)
}
