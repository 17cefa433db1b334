package domain

import (
	"fmt"
	"time"
)

// ReactionType is a quick response to a listing or urgent need
type ReactionType string

const (
	ReactionLike        ReactionType = "like"
	ReactionHelpful     ReactionType = "helpful"
	ReactionAvailable   ReactionType = "available"
	ReactionUnavailable ReactionType = "unavailable"
)

// NewReactionType creates a ReactionType with validation
func NewReactionType(value string) (ReactionType, error) {
	switch value {
	case "like", "helpful", "available", "unavailable":
		return ReactionType(value), nil
	default:
		return "", fmt.Errorf("invalid reaction type: %s", value)
	}
}

// String returns the string representation of ReactionType
func (t ReactionType) String() string {
	return string(t)
}

// Reaction is a stored reaction; the backend keeps one per user per target
// and overwrites it on re-reaction.
type Reaction struct {
	ID        string       `json:"id"`
	UserUID   string       `json:"user_uid"`
	Type      ReactionType `json:"reaction_type"`
	CreatedAt time.Time    `json:"created_at"`
}

// CountReactions tallies reactions by type for display
func CountReactions(reactions []Reaction) map[ReactionType]int {
	counts := make(map[ReactionType]int)
	for _, r := range reactions {
		counts[r.Type]++
	}
	return counts
}
