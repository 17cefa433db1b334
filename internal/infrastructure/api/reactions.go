package api

import (
	"context"

	"neighbournode.dev/cli/internal/core/domain"
)

// reactionRequest is the body the reaction endpoints expect
type reactionRequest struct {
	ReactionType string `json:"reaction_type"`
}

// ReactToListing adds the caller's reaction to a listing. Reacting again
// replaces the previous reaction; the backend keeps one per user per target.
func (g *Gateway) ReactToListing(ctx context.Context, listingID string, reaction domain.ReactionType) (*domain.Reaction, error) {
	return g.react(ctx, "/reactions/listings/"+listingID+"/reactions", reaction)
}

// ListingReactions lists reactions on a listing
func (g *Gateway) ListingReactions(ctx context.Context, listingID string) ([]domain.Reaction, error) {
	return g.reactions(ctx, "/reactions/listings/"+listingID+"/reactions")
}

// ReactToUrgentNeed adds the caller's reaction to an urgent need
func (g *Gateway) ReactToUrgentNeed(ctx context.Context, needID string, reaction domain.ReactionType) (*domain.Reaction, error) {
	return g.react(ctx, "/reactions/urgent/"+needID+"/reactions", reaction)
}

// UrgentNeedReactions lists reactions on an urgent need
func (g *Gateway) UrgentNeedReactions(ctx context.Context, needID string) ([]domain.Reaction, error) {
	return g.reactions(ctx, "/reactions/urgent/"+needID+"/reactions")
}

func (g *Gateway) react(ctx context.Context, path string, reaction domain.ReactionType) (*domain.Reaction, error) {
	if _, err := domain.NewReactionType(reaction.String()); err != nil {
		return nil, err
	}

	var stored domain.Reaction
	if err := g.client.PostJSON(ctx, path, reactionRequest{ReactionType: reaction.String()}, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (g *Gateway) reactions(ctx context.Context, path string) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	if err := g.client.GetJSON(ctx, path, nil, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}
