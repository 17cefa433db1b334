package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"neighbournode.dev/cli/internal/core/domain"
	authports "neighbournode.dev/cli/internal/core/ports/auth"
)

// ErrNotSignedIn is returned by operations that need an identity when the
// session has none.
var ErrNotSignedIn = errors.New("not signed in")

// refreshAhead is how long before expiry the session starts exchanging the
// refresh token, so requests never go out with a token about to die mid
// flight.
const refreshAhead = 5 * time.Minute

// Session resolves the current identity from stored credentials. It lazily
// loads the store on first use, refreshes the ID token ahead of expiry and
// persists whatever it learns.
type Session struct {
	client *IdentityClient
	store  authports.CredentialsStore

	mu     sync.Mutex
	creds  *domain.Credentials
	loaded bool
}

// NewSession creates a session over the given identity client and store
func NewSession(client *IdentityClient, store authports.CredentialsStore) *Session {
	return &Session{
		client: client,
		store:  store,
	}
}

// SignIn exchanges an email and password for credentials and persists them
func (s *Session) SignIn(ctx context.Context, email, password string) (*domain.Credentials, error) {
	creds, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(creds); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}

	s.creds = creds
	s.loaded = true
	return creds, nil
}

// SignOut drops stored credentials. Signing out while signed out is fine.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	s.loaded = true

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// CurrentIdentity resolves the signed-in identity, or (nil, nil) when
// nobody is signed in.
func (s *Session) CurrentIdentity(ctx context.Context) (authports.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	if s.creds == nil {
		return nil, nil
	}

	return &sessionIdentity{
		session: s,
		uid:     s.creds.UID,
		email:   s.creds.Email,
	}, nil
}

// Credentials returns the stored credentials without refreshing, nil when
// signed out. Status display uses this to show email and expiry.
func (s *Session) Credentials() (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	return s.creds, nil
}

// ensureLoaded pulls credentials from the store once. Callers hold the lock.
func (s *Session) ensureLoaded() error {
	if s.loaded {
		return nil
	}

	creds, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	s.creds = creds
	s.loaded = true
	return nil
}

// freshIDToken returns a token valid long enough to complete a request,
// refreshing when the stored one is inside the refresh window.
func (s *Session) freshIDToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return "", err
	}

	if s.creds == nil {
		return "", ErrNotSignedIn
	}

	if !s.creds.ShouldRefresh(refreshAhead) {
		return s.creds.IDToken, nil
	}

	if s.creds.RefreshToken == "" {
		if s.creds.IsExpired() {
			return "", fmt.Errorf("session expired, sign in again")
		}
		return s.creds.IDToken, nil
	}

	refreshed, err := s.client.RefreshIDToken(ctx, s.creds.RefreshToken)
	if err != nil {
		// The stored token may still have life left in it; only give up
		// once it is past the hard deadline.
		if !s.creds.IsExpired() {
			return s.creds.IDToken, nil
		}
		return "", fmt.Errorf("failed to refresh session: %w", err)
	}

	// The refresh response carries no email and may omit fields; keep what
	// the original sign-in established.
	refreshed.Email = s.creds.Email
	if refreshed.UID == "" {
		refreshed.UID = s.creds.UID
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = s.creds.RefreshToken
	}

	if err := s.store.Save(refreshed); err != nil {
		return "", fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}

	s.creds = refreshed
	return refreshed.IDToken, nil
}

// sessionIdentity is the identity view over a session snapshot. UID and
// email are fixed at resolution time; the token stays live through the
// session so refreshes are shared.
type sessionIdentity struct {
	session *Session
	uid     string
	email   string
}

func (i *sessionIdentity) UID() string {
	return i.uid
}

func (i *sessionIdentity) Email() string {
	return i.email
}

func (i *sessionIdentity) IDToken(ctx context.Context) (string, error) {
	return i.session.freshIDToken(ctx)
}

var (
	_ authports.IdentityProvider = (*Session)(nil)
	_ authports.Identity         = (*sessionIdentity)(nil)
)
