package config

import "time"

// OtpConfig carries the two-factor challenge policy. The thresholds are
// deliberately configuration rather than hard-coded: the backend does not
// publish them, so deployments tune them here.
type OtpConfig interface {
	GetPreAuthTokenTTL() time.Duration
	GetOtpResendInterval() time.Duration
	GetMaxOtpAttempts() int
}

type Otp struct{}

var _ OtpConfig = Otp{}

// GetPreAuthTokenTTL is the wall-clock lifetime of a pending challenge,
// enforced locally even when the backend would still accept the token.
func (Otp) GetPreAuthTokenTTL() time.Duration {
	return 5 * time.Minute
}

func (Otp) GetOtpResendInterval() time.Duration {
	return 60 * time.Second
}

// GetMaxOtpAttempts is the number of consecutive failed verifications
// before the challenge locks itself out and forces a fresh login.
func (Otp) GetMaxOtpAttempts() int {
	return 5
}
