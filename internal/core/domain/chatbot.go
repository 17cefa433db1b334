package domain

import "fmt"

const maxChatQueryLength = 500

// ChatQuery asks the neighbourhood chatbot for something. Coordinates are
// optional; with them the bot ranks nearby listings by distance too.
type ChatQuery struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

// Validate checks the query before it goes on the wire
func (q ChatQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("chat query cannot be empty")
	}
	if len(q.Query) > maxChatQueryLength {
		return fmt.Errorf("chat query must be at most %d characters, got %d", maxChatQueryLength, len(q.Query))
	}
	if (q.Lat == nil) != (q.Lng == nil) {
		return fmt.Errorf("chat query needs both coordinates or neither")
	}
	return nil
}

// Suggestion is a local listing the chatbot matched against the query
type Suggestion struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	IsFree         bool     `json:"is_free"`
	DistanceKm     *float64 `json:"distance_km"`
	RelevanceScore int      `json:"relevance_score"`
}

// ExternalLink points at a delivery platform that may stock the item
type ExternalLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// ChatAnswer is the chatbot's reply: rendered text plus the structured
// matches and platform links it was built from.
type ChatAnswer struct {
	Response      string         `json:"response"`
	Suggestions   []Suggestion   `json:"suggestions"`
	ExternalLinks []ExternalLink `json:"external_links"`
}
