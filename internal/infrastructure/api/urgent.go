package api

import (
	"context"
	"fmt"

	"neighbournode.dev/cli/internal/core/domain"
)

// CreateUrgentNeed raises a time-boxed call for help around the caller
func (g *Gateway) CreateUrgentNeed(ctx context.Context, draft domain.UrgentNeedDraft) (*domain.UrgentNeed, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	draft = draft.WithDefaults()

	var need domain.UrgentNeed
	if err := g.client.PostJSON(ctx, "/urgent/", draft, &need); err != nil {
		return nil, err
	}
	return &need, nil
}

// NearbyUrgentNeeds returns active urgent needs around a point. A zero
// radius means the default urgent radius.
func (g *Gateway) NearbyUrgentNeeds(ctx context.Context, coords domain.Coordinates, radiusKm float64) ([]domain.UrgentNeed, error) {
	if radiusKm == 0 {
		radiusKm = domain.DefaultUrgentRadiusKm
	}
	if _, err := domain.NewRadiusKm(radiusKm); err != nil {
		return nil, err
	}

	query := map[string]string{
		"lat":       formatFloat(coords.Lat),
		"lng":       formatFloat(coords.Lng),
		"radius_km": formatFloat(radiusKm),
	}

	var needs []domain.UrgentNeed
	if err := g.client.GetJSON(ctx, "/urgent/nearby", query, &needs); err != nil {
		return nil, err
	}
	return needs, nil
}

// ResolveUrgentNeed marks the caller's urgent need as resolved. The backend
// answers 200 with a status word instead of an HTTP error, so the mapping
// to errors happens here.
func (g *Gateway) ResolveUrgentNeed(ctx context.Context, needID string) error {
	var reply domain.StatusReply
	if err := g.client.PostJSON(ctx, "/urgent/"+needID+"/resolve", nil, &reply); err != nil {
		return err
	}

	switch reply.Status {
	case "ok":
		return nil
	case "not_found":
		return fmt.Errorf("urgent need %s not found", needID)
	case "forbidden":
		return fmt.Errorf("only the author can resolve an urgent need")
	default:
		return fmt.Errorf("unexpected resolve status %q", reply.Status)
	}
}

// UrgentMessages reads the reply thread under an urgent need
func (g *Gateway) UrgentMessages(ctx context.Context, needID string) ([]domain.Message, error) {
	var messages []domain.Message
	if err := g.client.GetJSON(ctx, "/urgent/"+needID+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendUrgentMessage posts into the reply thread under an urgent need
func (g *Gateway) SendUrgentMessage(ctx context.Context, needID, content string) (*domain.Message, error) {
	draft := domain.MessageDraft{Content: content}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var message domain.Message
	if err := g.client.PostJSON(ctx, "/urgent/"+needID+"/messages", draft, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// MatchingListings returns the caller's own listings scored against an
// urgent need, best match first.
func (g *Gateway) MatchingListings(ctx context.Context, needID string) ([]domain.ListingMatch, error) {
	var envelope struct {
		Listings []domain.ListingMatch `json:"listings"`
	}
	if err := g.client.GetJSON(ctx, "/urgent/"+needID+"/my-matching-listings", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Listings, nil
}

// respondRequest is the body for answering an urgent need with a listing
type respondRequest struct {
	ListingID string `json:"listing_id"`
}

// RespondWithListing answers an urgent need by offering one of the caller's
// listings; the backend drops a message into the thread on their behalf.
func (g *Gateway) RespondWithListing(ctx context.Context, needID, listingID string) (*domain.RespondResult, error) {
	if listingID == "" {
		return nil, fmt.Errorf("listing id cannot be empty")
	}

	var result domain.RespondResult
	if err := g.client.PostJSON(ctx, "/urgent/"+needID+"/respond-with-listing", respondRequest{ListingID: listingID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
