package auth

import (
	"context"

	authports "neighbournode.dev/cli/internal/core/ports/auth"
)

// StaticIdentity carries a fixed ID token. CI pipelines inject one through
// the environment instead of running the password flow; tests use it too.
type StaticIdentity struct {
	uid   string
	email string
	token string
}

// NewStaticIdentity creates an identity with fixed values
func NewStaticIdentity(uid, email, token string) *StaticIdentity {
	return &StaticIdentity{uid: uid, email: email, token: token}
}

// NewStaticIdentityFromToken creates a static identity, reading UID and
// email from the token's claims when it parses as a JWT.
func NewStaticIdentityFromToken(token string) *StaticIdentity {
	identity := &StaticIdentity{token: token}
	if claims, err := ParseTokenClaims(token); err == nil {
		identity.uid = claims.UID
		identity.email = claims.Email
	}
	return identity
}

func (i *StaticIdentity) UID() string {
	return i.uid
}

func (i *StaticIdentity) Email() string {
	return i.email
}

func (i *StaticIdentity) IDToken(ctx context.Context) (string, error) {
	return i.token, nil
}

// StaticProvider always resolves the same identity
type StaticProvider struct {
	identity authports.Identity
}

// NewStaticProvider creates a provider pinned to one identity
func NewStaticProvider(identity authports.Identity) *StaticProvider {
	return &StaticProvider{identity: identity}
}

// SignedOut creates a provider for the anonymous state
func SignedOut() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) CurrentIdentity(ctx context.Context) (authports.Identity, error) {
	return p.identity, nil
}

var (
	_ authports.Identity         = (*StaticIdentity)(nil)
	_ authports.IdentityProvider = (*StaticProvider)(nil)
)
