package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the client cares about inside an ID token
type TokenClaims struct {
	UID     string
	Email   string
	Expires time.Time
}

// ParseTokenClaims decodes claims from an ID token without verifying the
// signature. Verification is the backend's job; the client only needs claim
// values for refresh scheduling and status display.
func ParseTokenClaims(idToken string) (*TokenClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	parsed := &TokenClaims{}

	// Identity Platform tokens carry the UID as user_id; fall back to the
	// registered subject claim.
	if uid, ok := claims["user_id"].(string); ok {
		parsed.UID = uid
	} else if sub, ok := claims["sub"].(string); ok {
		parsed.UID = sub
	}

	if email, ok := claims["email"].(string); ok {
		parsed.Email = email
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		parsed.Expires = exp.Time
	}

	return parsed, nil
}
