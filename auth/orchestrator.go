package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/anjing/storeauth/api"
	"github.com/anjing/storeauth/authmodel"
	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/session"
)

// Orchestrator drives the primary login call and decides whether the
// result is a completed session or a pending two-factor challenge.
type Orchestrator struct {
	client  api.Client
	tokens  *session.Store
	nowFunc func() time.Time
}

type OrchestratorOption func(*Orchestrator)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.nowFunc = nowFunc
	}
}

func NewOrchestrator(client api.Client, tokens *session.Store, options ...OrchestratorOption) *Orchestrator {
	orchestrator := &Orchestrator{
		client:  client,
		tokens:  tokens,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(orchestrator)
	}
	return orchestrator
}

// Login performs a single bounded login attempt. On full acceptance the
// session store receives the new token before the outcome is returned;
// on a two-factor demand nothing is stored and the caller feeds the
// pre-auth token into an otp.Challenge.
func (o *Orchestrator) Login(ctx context.Context, username, password string) (Outcome, error) {
	if username == "" || password == "" {
		return nil, errors.Wrap(autherrors.ErrInvalidCredentials, "[Orchestrator.Login] username and password are required")
	}

	request := authmodel.LoginRequest{Username: username, Password: password}

	var response authmodel.LoginResponse
	if err := o.client.Post(ctx, api.PathLogin, request, &response); err != nil {
		return nil, o.loginFailure(err)
	}

	if response.RequiresTwoFactor {
		return TwoFactorRequired{
			PreAuthToken: response.PreAuthToken,
			Phone:        response.Phone,
		}, nil
	}

	token, err := session.NewToken(response.Token, response.RefreshToken, response.TokenType, response.ExpiresIn, o.nowFunc())
	if err != nil {
		return nil, errors.Wrap(err, "[Orchestrator.Login] building session token")
	}
	if err := o.tokens.Set(ctx, token); err != nil {
		return nil, errors.Wrap(err, "[Orchestrator.Login] storing session token")
	}

	return Authenticated{
		Token: token,
		User: authmodel.UserSummary{
			UserID:   response.UserID,
			Username: response.Username,
			Nickname: response.Nickname,
			Avatar:   response.Avatar,
		},
	}, nil
}

// loginFailure maps backend rejections onto the taxonomy. Any of the
// backend's 21xx login codes means the credential pair was refused;
// transport failures pass through untouched.
func (o *Orchestrator) loginFailure(err error) error {
	switch {
	case api.IsCode(err, api.CodeLoginFailed),
		api.IsCode(err, api.CodeBadCredentials),
		api.IsCode(err, api.CodeUserDisabled):
		return errors.Wrap(autherrors.ErrInvalidCredentials, "[Orchestrator.Login]")
	default:
		return errors.Wrap(err, "[Orchestrator.Login] login request")
	}
}
