package domain

import "fmt"

// Default search radii in kilometres. Urgent needs use a tighter radius
// because they only make sense for neighbours close enough to help fast.
const (
	DefaultSearchRadiusKm = 3.0
	DefaultUrgentRadiusKm = 2.0
	MaxRadiusKm           = 50.0
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinates creates Coordinates with validation
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude must be between -90 and 90, got %v", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("longitude must be between -180 and 180, got %v", lng)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// RadiusKm is a search radius in kilometres
type RadiusKm float64

// NewRadiusKm creates a RadiusKm with validation
func NewRadiusKm(value float64) (RadiusKm, error) {
	if value <= 0 {
		return 0, fmt.Errorf("radius must be positive, got %v", value)
	}
	if value > MaxRadiusKm {
		return 0, fmt.Errorf("radius must be at most %v km, got %v", MaxRadiusKm, value)
	}
	return RadiusKm(value), nil
}

// Value returns the float value of the radius
func (r RadiusKm) Value() float64 {
	return float64(r)
}
