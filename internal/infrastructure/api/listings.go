package api

import (
	"context"
	"net/http"

	"neighbournode.dev/cli/internal/core/domain"
)

// CreateListing puts a new listing on the neighbourhood board
func (g *Gateway) CreateListing(ctx context.Context, draft domain.ListingDraft) (*domain.Listing, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var listing domain.Listing
	if err := g.client.PostJSON(ctx, "/listings/", draft, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// NearbyListings returns active listings around a point. A zero radius
// means the default search radius.
func (g *Gateway) NearbyListings(ctx context.Context, coords domain.Coordinates, radiusKm float64) ([]domain.Listing, error) {
	if radiusKm == 0 {
		radiusKm = domain.DefaultSearchRadiusKm
	}
	if _, err := domain.NewRadiusKm(radiusKm); err != nil {
		return nil, err
	}

	query := map[string]string{
		"lat":       formatFloat(coords.Lat),
		"lng":       formatFloat(coords.Lng),
		"radius_km": formatFloat(radiusKm),
	}

	var listings []domain.Listing
	if err := g.client.GetJSON(ctx, "/listings/", query, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListing patches one of the caller's listings. The backend rejects
// patches against listings the caller does not own.
func (g *Gateway) UpdateListing(ctx context.Context, listingID string, patch domain.ListingPatch) (*domain.Listing, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var listing domain.Listing
	if err := g.client.DoJSON(ctx, http.MethodPatch, "/listings/"+listingID, patch, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}
