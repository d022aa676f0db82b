package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/anjing/storeauth/api"
	"github.com/anjing/storeauth/authmodel"
	"github.com/anjing/storeauth/otp"
	"github.com/anjing/storeauth/session"
	"github.com/anjing/storeauth/users"
)

// Service is the public authentication surface: primary login with
// conditional two-factor completion, registration and password
// passthroughs, current-user lookup, server-side token liveness, and
// logout.
type Service struct {
	client       api.Client
	tokens       *session.Store
	challenge    *otp.Challenge
	users        *users.Service
	orchestrator *Orchestrator
}

// NewService composes the authentication core. All dependencies are
// required.
func NewService(client api.Client, tokens *session.Store, challenge *otp.Challenge, userService *users.Service, options ...OrchestratorOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] api client is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] session store is required")
	}
	if challenge == nil {
		return nil, errors.New("[NewService] otp challenge is required")
	}
	if userService == nil {
		return nil, errors.New("[NewService] user service is required")
	}

	return &Service{
		client:       client,
		tokens:       tokens,
		challenge:    challenge,
		users:        userService,
		orchestrator: NewOrchestrator(client, tokens, options...),
	}, nil
}

// Login runs the primary credential check. When the backend demands a
// second factor, the pending challenge is begun here (which triggers
// the first code send) and the TwoFactorRequired outcome is returned
// for the caller to collect the code.
func (s *Service) Login(ctx context.Context, username, password string) (Outcome, error) {
	outcome, err := s.orchestrator.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if challenge, ok := outcome.(TwoFactorRequired); ok {
		var phone string
		if challenge.Phone != nil {
			phone = *challenge.Phone
		}
		if err := s.challenge.Begin(ctx, challenge.PreAuthToken, phone, otp.TypeLogin2FA); err != nil {
			return nil, errors.Wrap(err, "[Service.Login] beginning two-factor challenge")
		}
	}
	return outcome, nil
}

// VerifyTwoFactor completes a pending challenge and installs the
// resulting session token.
func (s *Service) VerifyTwoFactor(ctx context.Context, otpCode string, isClient bool) (*session.Token, error) {
	token, err := s.challenge.Verify(ctx, otpCode, isClient)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Set(ctx, token); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyTwoFactor] storing session token")
	}
	return token, nil
}

// ResendOtp re-triggers the code send for the pending challenge.
func (s *Service) ResendOtp(ctx context.Context) error {
	return s.challenge.Resend(ctx)
}

// AbandonLogin drops any pending two-factor challenge.
func (s *Service) AbandonLogin() {
	s.challenge.Abandon()
}

// BeginSMSLogin starts a phone-code login: the code is delivered to the
// phone and VerifyTwoFactor completes the session. No password step is
// involved, so there is no pre-auth token.
func (s *Service) BeginSMSLogin(ctx context.Context, phone string) error {
	return s.challenge.Begin(ctx, "", phone, otp.TypeLoginPhone)
}

// Register creates an account and returns the new user number.
func (s *Service) Register(ctx context.Context, params users.RegisterParams) (string, error) {
	return s.users.Register(ctx, params)
}

// UpdatePassword changes the current account's password.
func (s *Service) UpdatePassword(ctx context.Context, params users.UpdatePasswordParams) error {
	return s.users.UpdatePassword(ctx, params)
}

// CurrentUser fetches the authenticated user's profile and grants.
func (s *Service) CurrentUser(ctx context.Context) (*authmodel.UserInfo, error) {
	return s.users.Info(ctx)
}

// VerifyToken asks the backend whether the session is still live.
// Distinct from IsAuthenticated: a token can be locally unexpired yet
// revoked server-side.
func (s *Service) VerifyToken(ctx context.Context) (*authmodel.VerifyTokenResponse, error) {
	var response authmodel.VerifyTokenResponse
	if err := s.client.Get(ctx, api.PathVerifyToken, &response); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyToken]")
	}
	return &response, nil
}

// Logout tears the session down: backend first, then local state. The
// token store and any pending challenge are cleared even when the
// backend call fails, so a flaky network cannot leave a zombie session.
func (s *Service) Logout(ctx context.Context) error {
	logoutErr := s.client.Post(ctx, api.PathLogout, nil, nil)

	s.challenge.Abandon()
	if err := s.tokens.Clear(ctx); err != nil {
		return errors.Wrap(err, "[Service.Logout] clearing token store")
	}

	if logoutErr != nil {
		return errors.Wrap(logoutErr, "[Service.Logout] logout request")
	}
	return nil
}

// IsAuthenticated reports the local view of the session.
func (s *Service) IsAuthenticated() bool {
	return s.tokens.IsAuthenticated()
}

// Claims decodes the current access token's identity claims.
func (s *Service) Claims() (*session.Claims, error) {
	return s.tokens.DecodeClaims()
}
