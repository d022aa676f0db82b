package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/session"
)

func TestNewTokenDerivesExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := session.NewToken("access-1", "refresh-1", "Bearer", 3600, issuedAt)
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(time.Hour), token.ExpiresAt)
	require.False(t, token.Expired(issuedAt.Add(59*time.Minute)))
	require.True(t, token.Expired(issuedAt.Add(61*time.Minute)))
}

func TestNewTokenRejectsEmptyAccessToken(t *testing.T) {
	_, err := session.NewToken("", "refresh-1", "Bearer", 3600, time.Now())
	require.ErrorIs(t, err, autherrors.ErrEmptyToken)
}

func TestNewTokenDefaultsTokenType(t *testing.T) {
	token, err := session.NewToken("access-1", "", "", 60, time.Now())
	require.NoError(t, err)
	require.Equal(t, "Bearer", token.TokenType)
	require.Equal(t, "Bearer access-1", token.Authorization())
}
