package domain

import (
	"time"
)

// Credentials hold the identity material for a signed-in user: the ID token
// presented as the bearer token, and the refresh token used to mint a new
// one when it nears expiry.
type Credentials struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	IssuedAt     time.Time `json:"issued_at"`
}

// IsExpired checks if the ID token has expired
func (c *Credentials) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// ShouldRefresh checks if the ID token should be refreshed.
// Returns true if the token will expire within the given duration.
func (c *Credentials) ShouldRefresh(refreshAhead time.Duration) bool {
	if c.IsExpired() {
		return true
	}

	refreshTime := c.ExpiresAt.Add(-refreshAhead)
	return time.Now().After(refreshTime)
}

// TimeUntilExpiry returns the duration until the ID token expires
func (c *Credentials) TimeUntilExpiry() time.Duration {
	return time.Until(c.ExpiresAt)
}

// TokenInfo is what /auth/me echoes back: the claims the backend decoded
// from the presented ID token.
type TokenInfo struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}
