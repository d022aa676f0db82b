package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	autherrors "github.com/anjing/storeauth/internal/errors"
	"github.com/anjing/storeauth/session"
)

const testSigningSecret = "test-secret"

func signedAccessToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwtlib.MapClaims{
		"acc":  "13800000000",
		"sub":  "U1001",
		"usn":  "Alice",
		"tnn":  "T42",
		"sver": "v2",
		"exp":  expiresAt.Unix(),
		"iat":  expiresAt.Add(-time.Hour).Unix(),
		"jti":  "jti-1",
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSigningSecret))
	require.NoError(t, err)
	return raw
}

func TestDecodeClaims(t *testing.T) {
	expiresAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	claims, err := session.DecodeClaims(signedAccessToken(t, expiresAt))
	require.NoError(t, err)
	require.Equal(t, "13800000000", claims.Account)
	require.Equal(t, "U1001", claims.SubjectID)
	require.Equal(t, "Alice", claims.Nickname)
	require.Equal(t, "T42", claims.TenantID)
	require.Equal(t, "v2", claims.KeyVersion)
	require.Equal(t, "jti-1", claims.TokenID)
	require.True(t, claims.ExpiresAt.Equal(expiresAt))
	require.True(t, claims.IssuedAt.Equal(expiresAt.Add(-time.Hour)))
}

func TestDecodeClaimsMalformedToken(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b", "a.%%%.c"} {
		_, err := session.DecodeClaims(raw)
		require.ErrorIs(t, err, autherrors.ErrMalformedToken, "token %q", raw)
	}
}
