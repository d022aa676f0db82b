// Package authmodel holds the wire shapes exchanged with the backend's
// authentication endpoints.
package authmodel

// LoginRequest is the primary username/password login payload. No
// client-side password policy is applied; the backend is authoritative.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by both /auth/login and
// /auth/login/verify-2fa. One response shape carries two outcomes: a
// completed session (token fields populated) or a pending two-factor
// challenge (RequiresTwoFactor with a pre-auth token). Callers should
// not branch on these fields directly - auth.Orchestrator folds them
// into a tagged Outcome.
type LoginResponse struct {
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	TokenType    string  `json:"tokenType"`
	ExpiresIn    int64   `json:"expiresIn"`
	UserID       string  `json:"userId"`
	Username     string  `json:"username"`
	Nickname     string  `json:"nickname"`
	Avatar       *string `json:"avatar"`

	// Two-factor challenge fields, set when the password was accepted
	// but a second factor is required.
	RequiresTwoFactor bool    `json:"requiresTwoFactor,omitempty"`
	PreAuthToken      string  `json:"preAuthToken,omitempty"`
	Phone             *string `json:"phone,omitempty"`
}

// UserSummary is the identity slice of a successful login response.
type UserSummary struct {
	UserID   string
	Username string
	Nickname string
	Avatar   *string
}

// SendOtpRequest triggers a one-time code delivery. PreAuthToken is
// required for the two-factor flow and absent for phone-code login.
type SendOtpRequest struct {
	PreAuthToken string `json:"preAuthToken,omitempty"`
	Phone        string `json:"phone"`
	OtpType      string `json:"otpType"`
}

// Verify2FARequest exchanges a pre-auth token plus one-time code for a
// full session.
type Verify2FARequest struct {
	PreAuthToken string `json:"preAuthToken"`
	OtpCode      string `json:"otpCode"`
	IsClient     bool   `json:"isClient"`
}

// VerifyTokenResponse is the backend's answer to the token liveness
// probe. Distinct from the local expiry check: a token can be locally
// unexpired yet server-revoked.
type VerifyTokenResponse struct {
	IsLogin      bool    `json:"isLogin"`
	UserID       *string `json:"userId,omitempty"`
	TokenTimeout *int64  `json:"tokenTimeout,omitempty"`
}

// UserInfo is the authenticated user's profile plus authorization
// grants, as rendered by /auth/current-user and /auth/user/info.
type UserInfo struct {
	Buttons  []string `json:"buttons"`
	Roles    []string `json:"roles"`
	UserID   string   `json:"userId"`
	UserName string   `json:"userName"`
	Email    string   `json:"email"`
	Avatar   *string  `json:"avatar,omitempty"`
}
