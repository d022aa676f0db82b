package session

import (
	"time"

	"github.com/pkg/errors"

	autherrors "github.com/anjing/storeauth/internal/errors"
)

// Token is the immutable access/refresh credential pair issued after
// full authentication. ExpiresAt is derived from the issuance time plus
// the backend's expiresIn, so local expiry checks need no re-decode.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// NewToken builds a Token from a login or verification response.
// expiresIn is the backend-reported lifetime in seconds, measured from
// issuedAt. An empty access token is never a valid session.
func NewToken(accessToken, refreshToken, tokenType string, expiresIn int64, issuedAt time.Time) (*Token, error) {
	if accessToken == "" {
		return nil, errors.Wrap(autherrors.ErrEmptyToken, "[NewToken] access token must not be empty")
	}
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
		ExpiresAt:    issuedAt.Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// Expired reports whether the token's lifetime has elapsed at now.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Authorization renders the token as an Authorization header value.
func (t *Token) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}
