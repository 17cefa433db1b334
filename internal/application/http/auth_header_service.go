package apphttp

import (
	"context"

	authports "neighbournode.dev/cli/internal/core/ports/auth"
)

// AuthHeaderService resolves the Authorization header from the currently
// signed-in identity:
// - Signed in: {"Authorization": "Bearer <fresh ID token>"}
// - Signed out: an empty map; anonymous requests are a normal state
// Token fetch failures propagate to the caller untouched.
type AuthHeaderService struct {
	identities authports.IdentityProvider
}

func NewAuthHeaderService(identities authports.IdentityProvider) *AuthHeaderService {
	return &AuthHeaderService{identities: identities}
}

func (s *AuthHeaderService) Headers(ctx context.Context) (map[string]string, error) {
	h := map[string]string{}

	identity, err := s.identities.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return h, nil
	}

	token, err := identity.IDToken(ctx)
	if err != nil {
		return nil, err
	}
	h["Authorization"] = "Bearer " + token
	return h, nil
}
