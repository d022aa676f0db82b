package errors

import (
	"errors"
	"fmt"
)

// Common error types for the store-admin authentication core
var (
	// Login errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Two-factor challenge errors
	ErrOtpInvalid          = errors.New("invalid one-time code")
	ErrPreAuthTokenExpired = errors.New("pre-auth token expired")
	ErrAlreadyPending      = errors.New("a two-factor challenge is already pending")
	ErrTooSoon             = errors.New("resend requested too soon")

	// Token errors
	ErrMalformedToken = errors.New("malformed session token")
	ErrEmptyToken     = errors.New("empty access token")

	// Store binding errors
	ErrAlreadyBound = errors.New("session already bound to a store")
	ErrNotBound     = errors.New("session not bound to a store")

	// General errors
	ErrInvalidState = errors.New("operation invalid in current state")
	ErrNotFound     = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
