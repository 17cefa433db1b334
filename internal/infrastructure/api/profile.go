package api

import (
	"context"
	"fmt"

	"neighbournode.dev/cli/internal/core/domain"
)

// Me returns the claims the backend decoded from the presented ID token
func (g *Gateway) Me(ctx context.Context) (*domain.TokenInfo, error) {
	var info domain.TokenInfo
	if err := g.client.GetJSON(ctx, "/auth/me", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Profile fetches the caller's profile. A neighbour who never completed
// onboarding has none; the backend answers JSON null and this returns
// (nil, nil).
func (g *Gateway) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var profile *domain.UserProfile
	if err := g.client.GetJSON(ctx, "/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveProfile creates or replaces the caller's profile
func (g *Gateway) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	profile = profile.WithDefaults()
	if err := profile.Validate(); err != nil {
		return err
	}

	var reply domain.StatusReply
	if err := g.client.PostJSON(ctx, "/auth/profile", profile, &reply); err != nil {
		return err
	}

	if !reply.OK() {
		return fmt.Errorf("profile save not acknowledged: %q", reply.Status)
	}
	return nil
}
