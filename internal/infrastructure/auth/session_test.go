package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neighbournode.dev/cli/internal/core/domain"
	"neighbournode.dev/cli/internal/core/testfixtures"
)

// identityServer fakes the sign-in and token endpoints, counting hits
type identityServer struct {
	server      *httptest.Server
	signInCalls int32
	tokenCalls  int32
	tokenStatus int
}

func newIdentityServer(t *testing.T) *identityServer {
	t.Helper()

	is := &identityServer{tokenStatus: http.StatusOK}
	is.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/v1/accounts:signInWithPassword":
			atomic.AddInt32(&is.signInCalls, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId":      "user-123",
				"email":        "asha@example.com",
				"idToken":      "signed-in-token",
				"refreshToken": "refresh-abc",
				"expiresIn":    "3600",
			})
		case "/v1/token":
			atomic.AddInt32(&is.tokenCalls, 1)
			if is.tokenStatus != http.StatusOK {
				w.WriteHeader(is.tokenStatus)
				w.Write([]byte(`{"error":{"code":400,"message":"TOKEN_EXPIRED"}}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"user_id":       "user-123",
				"id_token":      "rotated-token",
				"refresh_token": "rotated-refresh",
				"expires_in":    "3600",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(is.server.Close)

	return is
}

func (is *identityServer) client() *IdentityClient {
	return NewIdentityClient(is.server.URL, is.server.URL, "test-key", is.server.Client())
}

func storedCredentials(expiresIn time.Duration) *domain.Credentials {
	creds := testfixtures.NewCredentialsBuilder().
		WithUID("user-123").
		WithEmail("asha@example.com").
		WithIDToken("stored-token").
		ExpiringIn(expiresIn).
		Build()
	return &creds
}

func TestSession_CurrentIdentity_SignedOut(t *testing.T) {
	session := NewSession(newIdentityServer(t).client(), NewMemoryCredentialsStore())

	identity, err := session.CurrentIdentity(context.Background())

	require.NoError(t, err)
	assert.Nil(t, identity, "an empty store means signed out, not an error")
}

func TestSession_SignIn_PersistsCredentials(t *testing.T) {
	is := newIdentityServer(t)
	store := NewMemoryCredentialsStore()
	session := NewSession(is.client(), store)

	creds, err := session.SignIn(context.Background(), "asha@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "signed-in-token", creds.IDToken)

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "signed-in-token", stored.IDToken)

	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "user-123", identity.UID())
	assert.Equal(t, "asha@example.com", identity.Email())
}

func TestSession_IDToken_FreshTokenSkipsNetwork(t *testing.T) {
	is := newIdentityServer(t)
	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(time.Hour)))

	session := NewSession(is.client(), store)
	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)

	token, err := identity.IDToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
	assert.EqualValues(t, 0, atomic.LoadInt32(&is.tokenCalls))
}

func TestSession_IDToken_RefreshesNearExpiry(t *testing.T) {
	is := newIdentityServer(t)
	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(2*time.Minute)))

	session := NewSession(is.client(), store)
	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)

	token, err := identity.IDToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&is.tokenCalls))

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "rotated-token", stored.IDToken)
	assert.Equal(t, "rotated-refresh", stored.RefreshToken)
	assert.Equal(t, "asha@example.com", stored.Email, "email survives the refresh")

	// The rotated token is fresh for an hour, so a second ask stays local
	again, err := identity.IDToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", again)
	assert.EqualValues(t, 1, atomic.LoadInt32(&is.tokenCalls))
}

func TestSession_IDToken_FailedRefreshFallsBackUntilExpiry(t *testing.T) {
	is := newIdentityServer(t)
	is.tokenStatus = http.StatusBadRequest

	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(2*time.Minute)))

	session := NewSession(is.client(), store)
	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)

	token, err := identity.IDToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "stored-token", token, "a live token outlasts a failed refresh")
}

func TestSession_IDToken_ExpiredAndRefreshFails(t *testing.T) {
	is := newIdentityServer(t)
	is.tokenStatus = http.StatusBadRequest

	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(-time.Minute)))

	session := NewSession(is.client(), store)
	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)

	_, err = identity.IDToken(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh session")
}

func TestSession_SignOut(t *testing.T) {
	is := newIdentityServer(t)
	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(time.Hour)))

	session := NewSession(is.client(), store)
	require.NoError(t, session.SignOut())

	identity, err := session.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.NoError(t, session.SignOut(), "signing out twice is fine")
}

func TestSession_Credentials_ExposesStoredState(t *testing.T) {
	store := NewMemoryCredentialsStore()
	require.NoError(t, store.Save(storedCredentials(time.Hour)))

	session := NewSession(newIdentityServer(t).client(), store)

	creds, err := session.Credentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "asha@example.com", creds.Email)

	empty := NewSession(newIdentityServer(t).client(), NewMemoryCredentialsStore())
	creds, err = empty.Credentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}
