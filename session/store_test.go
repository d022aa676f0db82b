package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/kv"
	"github.com/anjing/storeauth/session"
)

const storageKey = "storeauth:session"

func testToken(t *testing.T, accessToken string, now time.Time) *session.Token {
	t.Helper()
	token, err := session.NewToken(accessToken, "refresh-1", "Bearer", 3600, now)
	require.NoError(t, err)
	return token
}

func TestStoreSetThenAuthenticated(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(session.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.Current())

	require.NoError(t, store.Set(ctx, testToken(t, "access-1", now)))
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "access-1", store.Current().AccessToken)
	require.Equal(t, "Bearer access-1", store.Authorization())
}

func TestStoreExpiredTokenIsNotAuthenticated(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(session.WithNowFunc(func() time.Time { return now.Add(2 * time.Hour) }))

	require.NoError(t, store.Set(context.Background(), testToken(t, "access-1", now)))
	require.False(t, store.IsAuthenticated())
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testToken(t, "access-1", time.Now())))
	require.NoError(t, store.Clear(ctx))
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Authorization())
	require.NoError(t, store.Clear(ctx))
}

func TestStoreSetRejectsEmptyToken(t *testing.T) {
	store := session.NewStore()
	err := store.Set(context.Background(), &session.Token{})
	require.ErrorIs(t, err, autherrors.ErrEmptyToken)
}

func TestStoreObservers(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	var seen []*session.Token
	store.Subscribe(func(token *session.Token) {
		seen = append(seen, token)
	})

	require.NoError(t, store.Set(ctx, testToken(t, "access-1", time.Now())))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx)) // second clear must not re-notify

	require.Len(t, seen, 2)
	require.Equal(t, "access-1", seen[0].AccessToken)
	require.Nil(t, seen[1])
}

func TestStorePersistsAndRestores(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }
	storage := kv.NewMemory()
	ctx := context.Background()

	store := session.NewStore(session.WithStorage(storage, storageKey), session.WithNowFunc(nowFunc))
	require.NoError(t, store.Set(ctx, testToken(t, "access-1", now)))

	restored := session.NewStore(session.WithStorage(storage, storageKey), session.WithNowFunc(nowFunc))
	require.NoError(t, restored.Restore(ctx))
	require.True(t, restored.IsAuthenticated())
	require.Equal(t, "access-1", restored.Current().AccessToken)
}

func TestStoreRestoreSkipsExpiredToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := kv.NewMemory()
	ctx := context.Background()

	store := session.NewStore(session.WithStorage(storage, storageKey), session.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, store.Set(ctx, testToken(t, "access-1", now)))

	later := session.NewStore(session.WithStorage(storage, storageKey), session.WithNowFunc(func() time.Time { return now.Add(2 * time.Hour) }))
	require.NoError(t, later.Restore(ctx))
	require.False(t, later.IsAuthenticated())
}

// brokenStorage fails every write; reads fall through to the wrapped
// store.
type brokenStorage struct {
	kv.Store
	setErr error
}

func (b *brokenStorage) Set(ctx context.Context, key, value string, exp time.Duration) error {
	return b.setErr
}

func TestStoreSetPersistFailureLeavesTokenUntouched(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	storage := &brokenStorage{Store: kv.NewMemory(), setErr: errors.New("redis: connection refused")}
	store := session.NewStore(session.WithStorage(storage, storageKey), session.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	var notified int
	store.Subscribe(func(token *session.Token) { notified++ })

	err := store.Set(ctx, testToken(t, "access-1", now))
	require.Error(t, err)
	require.Nil(t, store.Current())
	require.False(t, store.IsAuthenticated())
	require.Zero(t, notified)

	// recovery installs the token and notifies once
	storage.setErr = nil
	require.NoError(t, store.Set(ctx, testToken(t, "access-2", now)))
	require.Equal(t, "access-2", store.Current().AccessToken)
	require.Equal(t, 1, notified)
}

func TestStoreRestoreWithoutStorageIsNoop(t *testing.T) {
	store := session.NewStore()
	require.NoError(t, store.Restore(context.Background()))
	require.False(t, store.IsAuthenticated())
}

func TestStoreDecodeClaims(t *testing.T) {
	now := time.Now()
	store := session.NewStore()
	ctx := context.Background()

	_, err := store.DecodeClaims()
	require.ErrorIs(t, err, autherrors.ErrNotAuthenticated)

	require.NoError(t, store.Set(ctx, testToken(t, "not-a-jwt", now)))
	_, err = store.DecodeClaims()
	require.ErrorIs(t, err, autherrors.ErrMalformedToken)

	require.NoError(t, store.Set(ctx, testToken(t, signedAccessToken(t, now.Add(time.Hour)), now)))
	claims, err := store.DecodeClaims()
	require.NoError(t, err)
	require.Equal(t, "U1001", claims.SubjectID)
}

func TestStoreConcurrentReadersAndWriters(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, testToken(t, "access-1", now))
				_ = store.Clear(ctx)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if token := store.Current(); token != nil {
					// a reader must never observe a half-written token
					require.Equal(t, "access-1", token.AccessToken)
				}
				store.IsAuthenticated()
			}
		}()
	}
	wg.Wait()
}
