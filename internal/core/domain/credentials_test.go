package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func createTestCredentials(expiresIn time.Duration) *Credentials {
	now := time.Now()
	return &Credentials{
		UID:          "user-123",
		Email:        "asha@example.com",
		IDToken:      "id-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    now.Add(expiresIn),
		IssuedAt:     now,
	}
}

func TestCredentials_IsExpired(t *testing.T) {
	assert.False(t, createTestCredentials(time.Hour).IsExpired())
	assert.True(t, createTestCredentials(-time.Minute).IsExpired())
}

func TestCredentials_ShouldRefresh(t *testing.T) {
	tests := []struct {
		name         string
		expiresIn    time.Duration
		refreshAhead time.Duration
		expected     bool
	}{
		{
			name:         "token expired",
			expiresIn:    -1 * time.Minute,
			refreshAhead: 5 * time.Minute,
			expected:     true,
		},
		{
			name:         "token expires soon",
			expiresIn:    3 * time.Minute,
			refreshAhead: 5 * time.Minute,
			expected:     true,
		},
		{
			name:         "token still valid",
			expiresIn:    10 * time.Minute,
			refreshAhead: 5 * time.Minute,
			expected:     false,
		},
		{
			name:         "token at refresh threshold",
			expiresIn:    5 * time.Minute,
			refreshAhead: 5 * time.Minute,
			expected:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := createTestCredentials(tc.expiresIn)
			assert.Equal(t, tc.expected, creds.ShouldRefresh(tc.refreshAhead))
		})
	}
}

func TestCredentials_TimeUntilExpiry(t *testing.T) {
	creds := createTestCredentials(time.Hour)

	remaining := creds.TimeUntilExpiry()

	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}
