package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseTokenClaims_IdentityPlatformToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signTestToken(t, jwt.MapClaims{
		"user_id": "user-123",
		"email":   "asha@example.com",
		"exp":     expiry.Unix(),
	})

	claims, err := ParseTokenClaims(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.True(t, expiry.Equal(claims.Expires))
}

func TestParseTokenClaims_FallsBackToSubject(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{
		"sub":   "subject-456",
		"email": "asha@example.com",
	})

	claims, err := ParseTokenClaims(token)

	require.NoError(t, err)
	assert.Equal(t, "subject-456", claims.UID)
	assert.True(t, claims.Expires.IsZero(), "no exp claim leaves expiry unset")
}

func TestParseTokenClaims_NotAJWT(t *testing.T) {
	_, err := ParseTokenClaims("definitely-not-a-token")
	assert.Error(t, err)
}

func TestNewStaticIdentityFromToken(t *testing.T) {
	t.Run("reads claims from a parseable token", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"user_id": "user-123",
			"email":   "asha@example.com",
		})

		identity := NewStaticIdentityFromToken(token)

		assert.Equal(t, "user-123", identity.UID())
		assert.Equal(t, "asha@example.com", identity.Email())

		got, err := identity.IDToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("keeps an opaque token usable", func(t *testing.T) {
		identity := NewStaticIdentityFromToken("opaque-ci-token")

		assert.Empty(t, identity.UID())

		got, err := identity.IDToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "opaque-ci-token", got)
	})
}
