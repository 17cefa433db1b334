package testfixtures

import (
	"time"

	"neighbournode.dev/cli/internal/core/domain"
)

// ListingBuilder provides a builder pattern for creating test listings
type ListingBuilder struct {
	listing domain.Listing
}

// NewListingBuilder creates a new ListingBuilder with sensible defaults
func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		listing: domain.Listing{
			ID:          "listing-1",
			OwnerUID:    "owner-1",
			Title:       "Aluminium ladder",
			Description: "3 metres, folds flat",
			Type:        domain.ListingOffer,
			IsFree:      true,
			Category:    "tools",
			Lat:         52.52,
			Lng:         13.405,
			Status:      domain.ListingActive,
			CreatedAt:   time.Now().Add(-2 * time.Hour),
		},
	}
}

// WithID sets the listing ID
func (b *ListingBuilder) WithID(id string) *ListingBuilder {
	b.listing.ID = id
	return b
}

// WithOwner sets the owning user
func (b *ListingBuilder) WithOwner(uid string) *ListingBuilder {
	b.listing.OwnerUID = uid
	return b
}

// WithTitle sets the title
func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.listing.Title = title
	return b
}

// WithDescription sets the description
func (b *ListingBuilder) WithDescription(description string) *ListingBuilder {
	b.listing.Description = description
	return b
}

// WithType sets the listing type
func (b *ListingBuilder) WithType(listingType domain.ListingType) *ListingBuilder {
	b.listing.Type = listingType
	return b
}

// AsRequest marks the listing as something the owner is looking for
func (b *ListingBuilder) AsRequest() *ListingBuilder {
	return b.WithType(domain.ListingRequest)
}

// WithStatus sets the lifecycle status
func (b *ListingBuilder) WithStatus(status domain.ListingStatus) *ListingBuilder {
	b.listing.Status = status
	return b
}

// WithLocation sets the listing coordinates
func (b *ListingBuilder) WithLocation(lat, lng float64) *ListingBuilder {
	b.listing.Lat = lat
	b.listing.Lng = lng
	return b
}

// WithCategory sets the free-form category
func (b *ListingBuilder) WithCategory(category string) *ListingBuilder {
	b.listing.Category = category
	return b
}

// WithCreatedAt sets the creation timestamp
func (b *ListingBuilder) WithCreatedAt(t time.Time) *ListingBuilder {
	b.listing.CreatedAt = t
	return b
}

// Build creates the listing
func (b *ListingBuilder) Build() domain.Listing {
	return b.listing
}

// UrgentNeedBuilder provides a builder pattern for creating test urgent needs
type UrgentNeedBuilder struct {
	need domain.UrgentNeed
}

// NewUrgentNeedBuilder creates a new UrgentNeedBuilder with sensible defaults
func NewUrgentNeedBuilder() *UrgentNeedBuilder {
	return &UrgentNeedBuilder{
		need: domain.UrgentNeed{
			ID:          "need-1",
			UserUID:     "owner-1",
			Title:       "Jump starter tonight",
			Description: "Car battery dead, need to leave early",
			Lat:         52.52,
			Lng:         13.405,
			RadiusKm:    domain.DefaultUrgentRadiusKm,
			Status:      domain.UrgentActive,
			CreatedAt:   time.Now().Add(-30 * time.Minute),
		},
	}
}

// WithID sets the need ID
func (b *UrgentNeedBuilder) WithID(id string) *UrgentNeedBuilder {
	b.need.ID = id
	return b
}

// WithOwner sets the raising user
func (b *UrgentNeedBuilder) WithOwner(uid string) *UrgentNeedBuilder {
	b.need.UserUID = uid
	return b
}

// WithTitle sets the title
func (b *UrgentNeedBuilder) WithTitle(title string) *UrgentNeedBuilder {
	b.need.Title = title
	return b
}

// WithStatus sets the lifecycle status
func (b *UrgentNeedBuilder) WithStatus(status domain.UrgentStatus) *UrgentNeedBuilder {
	b.need.Status = status
	return b
}

// Resolved marks the need as already handled
func (b *UrgentNeedBuilder) Resolved() *UrgentNeedBuilder {
	return b.WithStatus(domain.UrgentResolved)
}

// WithRadius sets the broadcast radius
func (b *UrgentNeedBuilder) WithRadius(radiusKm float64) *UrgentNeedBuilder {
	b.need.RadiusKm = radiusKm
	return b
}

// Build creates the urgent need
func (b *UrgentNeedBuilder) Build() domain.UrgentNeed {
	return b.need
}

// CredentialsBuilder provides a builder pattern for creating test credentials
type CredentialsBuilder struct {
	creds domain.Credentials
}

// NewCredentialsBuilder creates a new CredentialsBuilder for a signed-in user
func NewCredentialsBuilder() *CredentialsBuilder {
	now := time.Now()
	return &CredentialsBuilder{
		creds: domain.Credentials{
			UID:          "user-1",
			Email:        "user@example.com",
			IDToken:      "test-id-token",
			RefreshToken: "test-refresh-token",
			IssuedAt:     now,
			ExpiresAt:    now.Add(time.Hour),
		},
	}
}

// WithUID sets the user ID
func (b *CredentialsBuilder) WithUID(uid string) *CredentialsBuilder {
	b.creds.UID = uid
	return b
}

// WithEmail sets the email
func (b *CredentialsBuilder) WithEmail(email string) *CredentialsBuilder {
	b.creds.Email = email
	return b
}

// WithIDToken sets the ID token
func (b *CredentialsBuilder) WithIDToken(token string) *CredentialsBuilder {
	b.creds.IDToken = token
	return b
}

// WithoutRefreshToken drops the refresh token, pinning the session to
// the current ID token
func (b *CredentialsBuilder) WithoutRefreshToken() *CredentialsBuilder {
	b.creds.RefreshToken = ""
	return b
}

// ExpiringIn sets how far in the future the token expires; negative
// values produce already-expired credentials
func (b *CredentialsBuilder) ExpiringIn(d time.Duration) *CredentialsBuilder {
	b.creds.ExpiresAt = time.Now().Add(d)
	return b
}

// Build creates the credentials
func (b *CredentialsBuilder) Build() domain.Credentials {
	return b.creds
}

// Common sample data

// SampleListings returns a small set of listings covering each type
func SampleListings() []domain.Listing {
	return []domain.Listing{
		NewListingBuilder().WithID("listing-ladder").WithTitle("Aluminium ladder").Build(),
		NewListingBuilder().WithID("listing-drill").WithTitle("Looking for a drill").AsRequest().Build(),
		NewListingBuilder().WithID("listing-repair").WithTitle("Bike repair help").WithType(domain.ListingSkill).WithCategory("repairs").Build(),
	}
}

// SampleProfile returns a complete profile for tests that need one stored
func SampleProfile() domain.UserProfile {
	return domain.UserProfile{
		UID:             "user-1",
		DisplayName:     "Ada",
		Bio:             "Happy to lend tools",
		Lat:             52.52,
		Lng:             13.405,
		RadiusKmDefault: domain.DefaultSearchRadiusKm,
	}
}
