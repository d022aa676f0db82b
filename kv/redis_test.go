package kv_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/anjing/storeauth/kv"
)

func newRedisStoreForTest(t *testing.T) (*miniredis.Miniredis, *kv.Redis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	return server, kv.NewRedisWithClient(client)
}

func TestRedisSetGetDel(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", 0))

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v1", value)

	require.NoError(t, store.Del(ctx, "k1"))
	_, err = store.Get(ctx, "k1")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
	require.NoError(t, store.Del(ctx, "k1"))
}

func TestRedisExpiry(t *testing.T) {
	server, store := newRedisStoreForTest(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", time.Minute))
	server.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "k1")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
}
