package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anjing/storeauth/kv"
)

func TestMemorySetGetDel(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", 0))

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v1", value)

	require.NoError(t, store.Del(ctx, "k1"))
	_, err = store.Get(ctx, "k1")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	// deleting an absent key is not an error
	require.NoError(t, store.Del(ctx, "k1"))
}

func TestMemoryGetMissingKey(t *testing.T) {
	store := kv.NewMemory()
	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestMemoryOverwrite(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", 0))
	require.NoError(t, store.Set(ctx, "k1", "v2", 0))

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v2", value)
}
