package api

import (
	"errors"
	"fmt"
)

// Business error codes returned in the response envelope.
// The backend numbers auth failures in the 21xx-23xx range.
const (
	CodeSuccess             = "0"
	CodeLoginFailed         = "2100"
	CodeBadCredentials      = "2101"
	CodeUserDisabled        = "2103"
	CodeOtpError            = "2105"
	CodeLoginExpired        = "2106"
	CodeTokenParseFailed    = "2301"
	CodeRefreshTokenExpired = "2304"
)

// TransportError wraps a network-level failure or a non-JSON 5xx
// response. It is an opaque passthrough: callers distinguish it from
// business rejections but do not interpret it further.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a business rejection carried in the response envelope
// (envelope code != "0"). The HTTP exchange itself succeeded.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying the given
// business code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == code
}

// IsTransport reports whether err originated at the transport layer
// rather than as a business rejection.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
