package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func TestRedisSessionStore(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisSessionStore(client, time.Hour)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		token, err := store.Create(ctx, domain.SessionRecord{UserID: "uid-1", Email: "a@example.com"})
		require.NoError(t, err)
		assert.True(t, mr.Exists("portal:session:"+token))
		assert.Equal(t, time.Hour, mr.TTL("portal:session:"+token))

		rec, err := store.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", rec.UserID)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("expired", func(t *testing.T) {
		token, err := store.Create(ctx, domain.SessionRecord{UserID: "uid-2"})
		require.NoError(t, err)
		mr.FastForward(2 * time.Hour)

		_, err = store.Get(ctx, token)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		token, err := store.Create(ctx, domain.SessionRecord{UserID: "uid-3"})
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, token))

		_, err = store.Get(ctx, token)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	token, err := store.Create(ctx, domain.SessionRecord{UserID: "uid-1"})
	require.NoError(t, err)

	_, err = store.Get(ctx, token)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
