package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/kv"
)

// Observer is notified after every token replacement. A nil token
// means the session was cleared.
type Observer func(token *Token)

// Store owns the current session token. It starts empty, is torn down
// with Clear, and is injected into collaborators rather than reached
// for as a global. All methods are safe for concurrent use; readers
// never observe a half-updated token.
type Store struct {
	lock       sync.RWMutex
	current    *Token
	observers  []Observer
	storage    kv.Store
	storageKey string
	nowFunc    func() time.Time
}

type StoreOption func(*Store)

// WithStorage persists the current token under key so a long-lived
// host survives restarts. Without it the store is purely in-process.
func WithStorage(storage kv.Store, key string) StoreOption {
	return func(s *Store) {
		s.storage = storage
		s.storageKey = key
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = nowFunc
	}
}

// NewStore creates an empty store.
func NewStore(options ...StoreOption) *Store {
	store := &Store{
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(store)
	}
	return store
}

// Restore loads a previously persisted token, if any. A missing or
// expired entry is not an error; the store just stays empty.
func (s *Store) Restore(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	raw, err := s.storage.Get(ctx, s.storageKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil
		}
		return errors.Wrap(err, "[Store.Restore] storage.Get")
	}

	var token Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return errors.Wrap(err, "[Store.Restore] unmarshal persisted token")
	}
	if token.AccessToken == "" || token.Expired(s.nowFunc()) {
		return nil
	}

	s.lock.Lock()
	s.current = &token
	s.lock.Unlock()
	return nil
}

// Set replaces the current token atomically and notifies observers.
// Persistence happens first: when it fails the in-memory token is left
// untouched, so readers never see a token that callers were told was
// not installed.
func (s *Store) Set(ctx context.Context, token *Token) error {
	if token == nil || token.AccessToken == "" {
		return errors.Wrap(autherrors.ErrEmptyToken, "[Store.Set]")
	}

	copied := *token
	if err := s.persist(ctx, &copied); err != nil {
		return err
	}

	s.lock.Lock()
	s.current = &copied
	observers := append([]Observer(nil), s.observers...)
	s.lock.Unlock()

	for _, observe := range observers {
		observe(&copied)
	}
	return nil
}

// Current returns a copy of the stored token, or nil when logged out.
func (s *Store) Current() *Token {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// IsAuthenticated reports whether a token is present and locally
// unexpired. The backend may still have revoked it; see
// auth.Service.VerifyToken for the server-side answer.
func (s *Store) IsAuthenticated() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current != nil && !s.current.Expired(s.nowFunc())
}

// Clear drops the current token. Idempotent; used by logout.
func (s *Store) Clear(ctx context.Context) error {
	s.lock.Lock()
	wasSet := s.current != nil
	s.current = nil
	observers := append([]Observer(nil), s.observers...)
	s.lock.Unlock()

	if s.storage != nil {
		if err := s.storage.Del(ctx, s.storageKey); err != nil {
			return errors.Wrap(err, "[Store.Clear] storage.Del")
		}
	}

	if wasSet {
		for _, observe := range observers {
			observe(nil)
		}
	}
	return nil
}

// DecodeClaims decodes the stored access token. Returns
// ErrNotAuthenticated when no token is held and ErrMalformedToken when
// the token cannot be decoded.
func (s *Store) DecodeClaims() (*Claims, error) {
	token := s.Current()
	if token == nil {
		return nil, errors.Wrap(autherrors.ErrNotAuthenticated, "[Store.DecodeClaims]")
	}
	return DecodeClaims(token.AccessToken)
}

// Subscribe registers an observer for token replacements.
func (s *Store) Subscribe(observer Observer) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.observers = append(s.observers, observer)
}

// Authorization returns the Authorization header value for the current
// token, or "" when unauthenticated. Matches api.TokenSource.
func (s *Store) Authorization() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Authorization()
}

func (s *Store) persist(ctx context.Context, token *Token) error {
	if s.storage == nil {
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return errors.Wrap(err, "[Store.persist] marshal token")
	}

	ttl := token.ExpiresAt.Sub(s.nowFunc())
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.storage.Set(ctx, s.storageKey, string(data), ttl); err != nil {
		return errors.Wrap(err, "[Store.persist] storage.Set")
	}
	return nil
}
