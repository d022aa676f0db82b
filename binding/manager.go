// Package binding manages the exclusive association between an
// authenticated session and a store (tenant resource).
package binding

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/anjing/storeauth/api"
	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/session"
)

// BindStoreResponse carries the reissued credential pair after a bind.
// Binding changes the tenant-scoped claims, so the backend reissues the
// token rather than mutating the existing one.
type BindStoreResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Manager owns the session-to-store binding. A session is bound to at
// most one store at a time; Bind and Unbind are mutually exclusive so
// two binds of different stores can never both succeed.
type Manager struct {
	lock    sync.Mutex
	client  api.Client
	tokens  *session.Store
	storeNo string
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = nowFunc
	}
}

func NewManager(client api.Client, tokens *session.Store, options ...ManagerOption) *Manager {
	manager := &Manager{
		client:  client,
		tokens:  tokens,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(manager)
	}
	return manager
}

// Bind associates the session with storeNo and installs the reissued
// token. Binding while bound to a different store fails with
// ErrAlreadyBound. Re-binding the same store always calls through to
// the backend: reissuing a tenant-scoped token is safe and keeps the
// local session convergent with the server.
func (m *Manager) Bind(ctx context.Context, storeNo string) (*BindStoreResponse, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.tokens.IsAuthenticated() {
		return nil, errors.Wrap(autherrors.ErrNotAuthenticated, "[Manager.Bind]")
	}
	if m.storeNo != "" && m.storeNo != storeNo {
		return nil, errors.Wrapf(autherrors.ErrAlreadyBound, "[Manager.Bind] bound to store %s", m.storeNo)
	}

	var response BindStoreResponse
	if err := m.client.Put(ctx, api.PathBinding+"/"+storeNo, nil, &response); err != nil {
		return nil, errors.Wrap(err, "[Manager.Bind] bind request")
	}

	token, err := m.reissuedToken(&response)
	if err != nil {
		return nil, err
	}
	if err := m.tokens.Set(ctx, token); err != nil {
		return nil, errors.Wrap(err, "[Manager.Bind] storing reissued token")
	}

	m.storeNo = storeNo
	return &response, nil
}

// Unbind releases the current binding. The existing token is kept: the
// server does not invalidate it on unbind, it only drops the store
// scope on its side.
func (m *Manager) Unbind(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.storeNo == "" {
		return errors.Wrap(autherrors.ErrNotBound, "[Manager.Unbind]")
	}

	if err := m.client.Delete(ctx, api.PathBinding, nil); err != nil {
		return errors.Wrap(err, "[Manager.Unbind] unbind request")
	}

	m.storeNo = ""
	return nil
}

// StoreNo returns the bound store number, if any.
func (m *Manager) StoreNo() (string, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.storeNo == "" {
		return "", false
	}
	return m.storeNo, true
}

// reissuedToken turns the bind response into a session token. The
// response carries no expiresIn, so expiry comes from the reissued
// token's own exp claim; the token type carries over from the current
// session.
func (m *Manager) reissuedToken(response *BindStoreResponse) (*session.Token, error) {
	claims, err := session.DecodeClaims(response.Token)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.reissuedToken]")
	}

	tokenType := "Bearer"
	if current := m.tokens.Current(); current != nil {
		tokenType = current.TokenType
	}

	expiresIn := int64(claims.ExpiresAt.Sub(m.nowFunc()) / time.Second)
	token, err := session.NewToken(response.Token, response.RefreshToken, tokenType, expiresIn, m.nowFunc())
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.reissuedToken]")
	}
	return token, nil
}
