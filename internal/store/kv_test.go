package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKVExpiry(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedisKV(client)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	// Past the TTL the key misses again.
	mr.FastForward(2 * time.Minute)
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k2", "v2", 0))
	require.NoError(t, kv.Del(ctx, "k2"))
	_, err = kv.Get(ctx, "k2")
	require.ErrorIs(t, err, ErrMiss)
}
