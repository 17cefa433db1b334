package domain

import (
	"fmt"
	"time"
)

// ListingType classifies what a neighbour is putting on the board
type ListingType string

const (
	ListingOffer   ListingType = "offer"
	ListingRequest ListingType = "request"
	ListingSkill   ListingType = "skill"
)

// NewListingType creates a ListingType with validation
func NewListingType(value string) (ListingType, error) {
	switch value {
	case "offer", "request", "skill":
		return ListingType(value), nil
	default:
		return "", fmt.Errorf("invalid listing type: %s", value)
	}
}

// String returns the string representation of ListingType
func (t ListingType) String() string {
	return string(t)
}

// ListingStatus tracks a listing through its lifecycle
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingReserved  ListingStatus = "reserved"
	ListingCompleted ListingStatus = "completed"
	ListingExpired   ListingStatus = "expired"
)

// NewListingStatus creates a ListingStatus with validation
func NewListingStatus(value string) (ListingStatus, error) {
	switch value {
	case "active", "reserved", "completed", "expired":
		return ListingStatus(value), nil
	default:
		return "", fmt.Errorf("invalid listing status: %s", value)
	}
}

// String returns the string representation of ListingStatus
func (s ListingStatus) String() string {
	return string(s)
}

// Listing is a neighbourhood exchange entry as the backend returns it
type Listing struct {
	ID          string        `json:"id"`
	OwnerUID    string        `json:"owner_uid"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        ListingType   `json:"type"`
	IsFree      bool          `json:"is_free"`
	IsTrade     bool          `json:"is_trade"`
	Category    string        `json:"category,omitempty"`
	Lat         float64       `json:"lat"`
	Lng         float64       `json:"lng"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ListingDraft is the payload for creating a listing
type ListingDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        ListingType `json:"type"`
	IsFree      bool        `json:"is_free"`
	IsTrade     bool        `json:"is_trade"`
	Category    string      `json:"category,omitempty"`
	Lat         float64     `json:"lat"`
	Lng         float64     `json:"lng"`
}

// Validate checks the draft before it goes on the wire
func (d ListingDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("listing title cannot be empty")
	}
	if d.Description == "" {
		return fmt.Errorf("listing description cannot be empty")
	}
	if _, err := NewListingType(string(d.Type)); err != nil {
		return err
	}
	if _, err := NewCoordinates(d.Lat, d.Lng); err != nil {
		return err
	}
	return nil
}

// ListingPatch is a partial update; nil fields stay untouched
type ListingPatch struct {
	Status      *ListingStatus `json:"status,omitempty"`
	Description *string        `json:"description,omitempty"`
}

// Validate checks the patch carries something valid to change
func (p ListingPatch) Validate() error {
	if p.Status == nil && p.Description == nil {
		return fmt.Errorf("listing patch must change at least one field")
	}
	if p.Status != nil {
		if _, err := NewListingStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	if p.Description != nil && *p.Description == "" {
		return fmt.Errorf("listing description cannot be empty")
	}
	return nil
}
