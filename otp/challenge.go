package otp

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/anjing/storeauth/api"
	"github.com/anjing/storeauth/authmodel"
	"github.com/anjing/storeauth/internal/config"
	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/session"
)

// State of a two-factor challenge.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateVerified  State = "verified"
	StateAbandoned State = "abandoned"
	StateExpired   State = "expired"
)

// Type is the backend's OTP delivery purpose.
type Type string

const (
	TypeLogin2FA      Type = "LOGIN_2FA"
	TypeLoginPhone    Type = "LOGIN_PHONE"
	TypeResetPassword Type = "RESET_PASSWORD"
)

// pendingChallenge is the live state between a login that demanded a
// second factor and its resolution. At most one exists per Challenge.
type pendingChallenge struct {
	preAuthToken string
	phone        string
	otpType      Type
	createdAt    time.Time
	lastSentAt   time.Time
	attempts     int
}

// Challenge drives a pending two-factor verification: issuing the
// one-time code, re-sending it, and exchanging a correct code for a
// session token. All operations are serialized under one mutex so the
// attempt counter stays correct when a UI double-submits.
type Challenge struct {
	lock    sync.Mutex
	client  api.Client
	policy  config.OtpConfig
	state   State
	pending *pendingChallenge
	nowFunc func() time.Time
}

type ChallengeOption func(*Challenge)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) ChallengeOption {
	return func(c *Challenge) {
		c.nowFunc = nowFunc
	}
}

func NewChallenge(client api.Client, policy config.OtpConfig, options ...ChallengeOption) *Challenge {
	challenge := &Challenge{
		client:  client,
		policy:  policy,
		state:   StateIdle,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(challenge)
	}
	return challenge
}

// Begin starts a new challenge and triggers the first code send.
// A second Begin while one is pending fails with ErrAlreadyPending
// unless it repeats the pending challenge exactly (same pre-auth
// token, phone, and type), in which case it is a no-op so retried
// navigations do not burn the resend budget.
func (c *Challenge) Begin(ctx context.Context, preAuthToken, phone string, otpType Type) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.expireLocked()

	if c.state == StatePending {
		if c.pending.preAuthToken == preAuthToken && c.pending.phone == phone && c.pending.otpType == otpType {
			return nil
		}
		return errors.Wrap(autherrors.ErrAlreadyPending, "[Challenge.Begin]")
	}

	now := c.nowFunc()
	if err := c.send(ctx, preAuthToken, phone, otpType); err != nil {
		return err
	}

	c.state = StatePending
	c.pending = &pendingChallenge{
		preAuthToken: preAuthToken,
		phone:        phone,
		otpType:      otpType,
		createdAt:    now,
		lastSentAt:   now,
	}
	return nil
}

// Resend re-triggers the code send for the pending challenge. The
// pre-auth token does not change. Enforces the minimum resend interval
// regardless of what the caller's UI does.
func (c *Challenge) Resend(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.requirePendingLocked(); err != nil {
		return err
	}

	now := c.nowFunc()
	if now.Sub(c.pending.lastSentAt) < c.policy.GetOtpResendInterval() {
		return errors.Wrap(autherrors.ErrTooSoon, "[Challenge.Resend]")
	}

	if err := c.send(ctx, c.pending.preAuthToken, c.pending.phone, c.pending.otpType); err != nil {
		return err
	}
	c.pending.lastSentAt = now
	return nil
}

// Verify submits the one-time code. On acceptance the challenge is
// promoted to a session token. A wrong code leaves the challenge
// pending and counts one attempt; once the attempt budget is spent the
// challenge locks itself out even if the backend would still accept
// the correct code, forcing a fresh login.
func (c *Challenge) Verify(ctx context.Context, otpCode string, isClient bool) (*session.Token, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.requirePendingLocked(); err != nil {
		return nil, err
	}

	request := authmodel.Verify2FARequest{
		PreAuthToken: c.pending.preAuthToken,
		OtpCode:      otpCode,
		IsClient:     isClient,
	}

	var response authmodel.LoginResponse
	if err := c.client.Post(ctx, api.PathVerify2FA, request, &response); err != nil {
		return nil, c.verifyFailureLocked(err)
	}

	token, err := session.NewToken(response.Token, response.RefreshToken, response.TokenType, response.ExpiresIn, c.nowFunc())
	if err != nil {
		return nil, errors.Wrap(err, "[Challenge.Verify] building session token")
	}

	c.state = StateVerified
	c.pending = nil
	return token, nil
}

// Abandon moves any non-terminal challenge to Abandoned. Idempotent.
func (c *Challenge) Abandon() {
	c.lock.Lock()
	defer c.lock.Unlock()

	switch c.state {
	case StateVerified, StateAbandoned, StateExpired:
		return
	}
	c.state = StateAbandoned
	c.pending = nil
}

// State returns the current challenge state, applying wall-clock
// expiry first.
func (c *Challenge) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.expireLocked()
	return c.state
}

// Attempts returns the number of consecutive failed verifications for
// the pending challenge.
func (c *Challenge) Attempts() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.pending == nil {
		return 0
	}
	return c.pending.attempts
}

// Phone returns the masked delivery target for the pending challenge,
// if one was provided at Begin.
func (c *Challenge) Phone() (string, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.pending == nil || c.pending.phone == "" {
		return "", false
	}
	return c.pending.phone, true
}

func (c *Challenge) send(ctx context.Context, preAuthToken, phone string, otpType Type) error {
	request := authmodel.SendOtpRequest{
		PreAuthToken: preAuthToken,
		Phone:        phone,
		OtpType:      string(otpType),
	}
	if err := c.client.Post(ctx, api.PathSendOtp, request, nil); err != nil {
		if api.IsCode(err, api.CodeLoginExpired) || api.IsCode(err, api.CodeRefreshTokenExpired) {
			c.state = StateExpired
			c.pending = nil
			return errors.Wrap(autherrors.ErrPreAuthTokenExpired, "[Challenge.send]")
		}
		return errors.Wrap(err, "[Challenge.send] otp send")
	}
	return nil
}

// requirePendingLocked checks the challenge is operable: pending,
// within its TTL, and with attempt budget left.
func (c *Challenge) requirePendingLocked() error {
	c.expireLocked()

	switch c.state {
	case StatePending:
		return nil
	case StateExpired:
		return errors.Wrap(autherrors.ErrPreAuthTokenExpired, "[Challenge] challenge expired")
	default:
		return errors.Wrapf(autherrors.ErrInvalidState, "[Challenge] no pending challenge (state %s)", c.state)
	}
}

// expireLocked enforces the local TTL even when the backend has not
// rejected the pre-auth token yet.
func (c *Challenge) expireLocked() {
	if c.state != StatePending {
		return
	}
	if c.nowFunc().Sub(c.pending.createdAt) > c.policy.GetPreAuthTokenTTL() {
		c.state = StateExpired
		c.pending = nil
	}
}

func (c *Challenge) verifyFailureLocked(err error) error {
	switch {
	case api.IsCode(err, api.CodeLoginExpired), api.IsCode(err, api.CodeRefreshTokenExpired):
		c.state = StateExpired
		c.pending = nil
		return errors.Wrap(autherrors.ErrPreAuthTokenExpired, "[Challenge.Verify]")
	case api.IsCode(err, api.CodeOtpError):
		c.pending.attempts++
		if c.pending.attempts >= c.policy.GetMaxOtpAttempts() {
			c.state = StateExpired
			c.pending = nil
		}
		return errors.Wrap(autherrors.ErrOtpInvalid, "[Challenge.Verify]")
	default:
		return errors.Wrap(err, "[Challenge.Verify] verify request")
	}
}
