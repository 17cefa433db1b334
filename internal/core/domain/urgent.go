package domain

import (
	"fmt"
	"time"
)

// UrgentStatus tracks an urgent need through its short lifecycle
type UrgentStatus string

const (
	UrgentActive   UrgentStatus = "active"
	UrgentResolved UrgentStatus = "resolved"
	UrgentExpired  UrgentStatus = "expired"
)

// NewUrgentStatus creates an UrgentStatus with validation
func NewUrgentStatus(value string) (UrgentStatus, error) {
	switch value {
	case "active", "resolved", "expired":
		return UrgentStatus(value), nil
	default:
		return "", fmt.Errorf("invalid urgent need status: %s", value)
	}
}

// String returns the string representation of UrgentStatus
func (s UrgentStatus) String() string {
	return string(s)
}

// UrgentNeed is a time-boxed call for help; the backend expires them two
// hours after creation.
type UrgentNeed struct {
	ID          string       `json:"id"`
	UserUID     string       `json:"user_uid"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Lat         float64      `json:"lat"`
	Lng         float64      `json:"lng"`
	RadiusKm    float64      `json:"radius_km"`
	Status      UrgentStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// UrgentNeedDraft is the payload for raising an urgent need
type UrgentNeedDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	RadiusKm    float64 `json:"radius_km"`
}

// Validate checks the draft before it goes on the wire
func (d UrgentNeedDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("urgent need title cannot be empty")
	}
	if d.Description == "" {
		return fmt.Errorf("urgent need description cannot be empty")
	}
	if _, err := NewCoordinates(d.Lat, d.Lng); err != nil {
		return err
	}
	if d.RadiusKm != 0 {
		if _, err := NewRadiusKm(d.RadiusKm); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaults returns a copy with the urgent default radius applied when
// none is set.
func (d UrgentNeedDraft) WithDefaults() UrgentNeedDraft {
	if d.RadiusKm == 0 {
		d.RadiusKm = DefaultUrgentRadiusKm
	}
	return d
}

// Message is one entry in an urgent need's reply thread
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderUID      string    `json:"sender_uid"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageDraft is the payload for posting into a thread
type MessageDraft struct {
	UrgentNeedID string `json:"urgent_need_id,omitempty"`
	Content      string `json:"content"`
}

// Validate checks the message before it goes on the wire
func (d MessageDraft) Validate() error {
	if d.Content == "" {
		return fmt.Errorf("message content cannot be empty")
	}
	return nil
}

// ListingMatch is one of the caller's own listings that may answer an
// urgent need, scored by keyword overlap.
type ListingMatch struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        ListingType `json:"type"`
	IsFree      bool        `json:"is_free"`
	MatchScore  int         `json:"match_score"`
}

// RespondResult is the receipt for answering an urgent need with a listing
type RespondResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

// StatusReply is the bare {"status": ...} acknowledgement several
// endpoints return.
type StatusReply struct {
	Status string `json:"status"`
}

// OK reports whether the backend acknowledged the operation
func (r StatusReply) OK() bool {
	return r.Status == "ok"
}
