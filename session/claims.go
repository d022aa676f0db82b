package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	autherrors "github.com/anjing/storeauth/internal/errors"
)

// Claims is the read-only view over a decoded access token. The token
// is decoded, not re-verified: signature checking is the backend's job,
// and the client only needs the embedded identity fields.
type Claims struct {
	Account    string    // login account (phone number)
	SubjectID  string    // user number
	Nickname   string    // display name
	TenantID   string    // tenant (enterprise) number
	KeyVersion string    // signing key version
	ExpiresAt  time.Time // second-precision expiry
	IssuedAt   time.Time
	TokenID    string
}

// jwtPayload matches the backend's claim names.
type jwtPayload struct {
	Account    string `json:"acc"`
	Nickname   string `json:"usn"`
	TenantID   string `json:"tnn"`
	KeyVersion string `json:"sver"`
	jwt.RegisteredClaims
}

// DecodeClaims decodes an access token without verifying its signature.
// A token that cannot be decoded yields ErrMalformedToken, never a
// panic, since callers decode opportunistically.
func DecodeClaims(accessToken string) (*Claims, error) {
	payload := &jwtPayload{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, payload); err != nil {
		return nil, errors.Wrap(autherrors.ErrMalformedToken, err.Error())
	}

	claims := &Claims{
		Account:    payload.Account,
		SubjectID:  payload.Subject,
		Nickname:   payload.Nickname,
		TenantID:   payload.TenantID,
		KeyVersion: payload.KeyVersion,
		TokenID:    payload.ID,
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	return claims, nil
}
