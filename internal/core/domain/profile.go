package domain

import "fmt"

const maxBioLength = 400

// UserProfile is the public neighbour profile. UID is filled in by the
// backend on reads and ignored on writes.
type UserProfile struct {
	UID             string  `json:"uid,omitempty"`
	DisplayName     string  `json:"display_name"`
	PhotoURL        string  `json:"photo_url,omitempty"`
	Bio             string  `json:"bio,omitempty"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	RadiusKmDefault float64 `json:"radius_km_default"`
}

// Validate checks the profile before it goes on the wire
func (p UserProfile) Validate() error {
	if p.DisplayName == "" {
		return fmt.Errorf("display name cannot be empty")
	}
	if len(p.Bio) > maxBioLength {
		return fmt.Errorf("bio must be at most %d characters, got %d", maxBioLength, len(p.Bio))
	}
	if _, err := NewCoordinates(p.Lat, p.Lng); err != nil {
		return err
	}
	if _, err := NewRadiusKm(p.RadiusKmDefault); err != nil {
		return err
	}
	return nil
}

// WithDefaults returns a copy with the default search radius applied when
// none is set.
func (p UserProfile) WithDefaults() UserProfile {
	if p.RadiusKmDefault == 0 {
		p.RadiusKmDefault = DefaultSearchRadiusKm
	}
	return p
}
