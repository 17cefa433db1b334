package authports

import (
	"context"

	"neighbournode.dev/cli/internal/core/domain"
)

// Identity is a signed-in Neighbour Node user able to mint fresh ID tokens.
type Identity interface {
	UID() string
	Email() string
	IDToken(ctx context.Context) (string, error)
}

// IdentityProvider resolves the currently signed-in identity. A nil identity
// with a nil error means nobody is signed in; that is a normal state, not a
// failure.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
}

// CredentialsStore persists identity credentials between invocations.
type CredentialsStore interface {
	Load() (*domain.Credentials, error)
	Save(creds *domain.Credentials) error
	Clear() error
}
