package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"neighbournode.dev/cli/internal/core/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// renderResult writes a command result in the configured output format.
// text mode uses the supplied renderer, json and yaml marshal the value
// directly so scripts get the full wire shape.
func renderResult(cmd *cobra.Command, output string, value any, text func() string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result as JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode result as YAML: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), text())
	}
	return nil
}

var reactionEmoji = map[domain.ReactionType]string{
	domain.ReactionLike:        "👍",
	domain.ReactionHelpful:     "🤝",
	domain.ReactionAvailable:   "✅",
	domain.ReactionUnavailable: "🚫",
}

var listingMarkers = map[domain.ListingType]string{
	domain.ListingOffer:   "📦",
	domain.ListingRequest: "🙏",
	domain.ListingSkill:   "🛠️",
}

func formatListingLine(listing domain.Listing) string {
	marker, ok := listingMarkers[listing.Type]
	if !ok {
		marker = "📦"
	}

	var tags []string
	if listing.IsFree {
		tags = append(tags, "free")
	}
	if listing.IsTrade {
		tags = append(tags, "trade")
	}
	if listing.Category != "" {
		tags = append(tags, listing.Category)
	}
	if listing.Status != "" && listing.Status != domain.ListingActive {
		tags = append(tags, listing.Status.String())
	}

	line := fmt.Sprintf("%s %s", marker, labelStyle.Render(listing.Title))
	if len(tags) > 0 {
		line += " " + dimStyle.Render("["+strings.Join(tags, ", ")+"]")
	}
	if age := formatAge(listing.CreatedAt); age != "" {
		line += " " + dimStyle.Render(age)
	}
	line += "\n   " + dimStyle.Render("id: "+listing.ID)
	if listing.Description != "" {
		line += "\n   " + truncateString(listing.Description, 70)
	}
	return line
}

func formatListings(listings []domain.Listing) string {
	if len(listings) == 0 {
		return "📋 Nothing on the board nearby right now."
	}
	lines := make([]string, 0, len(listings))
	for _, listing := range listings {
		lines = append(lines, formatListingLine(listing))
	}
	return strings.Join(lines, "\n")
}

func formatUrgentNeedLine(need domain.UrgentNeed) string {
	marker := "🚨"
	if need.Status != domain.UrgentActive {
		marker = "✅"
	}

	line := fmt.Sprintf("%s %s %s", marker, labelStyle.Render(need.Title),
		dimStyle.Render(fmt.Sprintf("(within %.1f km, %s)", need.RadiusKm, need.Status)))
	if age := formatAge(need.CreatedAt); age != "" {
		line += " " + dimStyle.Render(age)
	}
	line += "\n   " + dimStyle.Render("id: "+need.ID)
	if need.Description != "" {
		line += "\n   " + truncateString(need.Description, 70)
	}
	return line
}

func formatUrgentNeeds(needs []domain.UrgentNeed) string {
	if len(needs) == 0 {
		return "🙌 No urgent needs nearby right now."
	}
	lines := make([]string, 0, len(needs))
	for _, need := range needs {
		lines = append(lines, formatUrgentNeedLine(need))
	}
	return strings.Join(lines, "\n")
}

// formatMessage renders one conversation line. Messages sent by selfUID
// show as "you".
func formatMessage(message domain.Message, selfUID string) string {
	sender := message.SenderUID
	if sender == selfUID && selfUID != "" {
		sender = "you"
	} else if len(sender) > 8 {
		sender = sender[:8]
	}
	return fmt.Sprintf("%s %s %s",
		dimStyle.Render(message.CreatedAt.Local().Format("15:04")),
		labelStyle.Render(sender+":"),
		message.Content)
}

func formatProfile(profile *domain.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", titleStyle.Render(profile.DisplayName))
	if profile.Bio != "" {
		fmt.Fprintf(&b, "   %s\n", profile.Bio)
	}
	fmt.Fprintf(&b, "📍 %.5f, %.5f\n", profile.Lat, profile.Lng)
	fmt.Fprintf(&b, "🔍 Default search radius: %.1f km", profile.RadiusKmDefault)
	if profile.PhotoURL != "" {
		fmt.Fprintf(&b, "\n🖼️  %s", profile.PhotoURL)
	}
	return b.String()
}

// formatReactionCounts tallies reactions into one line, e.g.
// "👍 like ×2  🤝 helpful ×1".
func formatReactionCounts(reactions []domain.Reaction) string {
	if len(reactions) == 0 {
		return "No reactions yet."
	}

	counts := domain.CountReactions(reactions)
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		reaction := domain.ReactionType(t)
		emoji, ok := reactionEmoji[reaction]
		if !ok {
			emoji = "❓"
		}
		parts = append(parts, fmt.Sprintf("%s %s ×%d", emoji, t, counts[reaction]))
	}
	return strings.Join(parts, "  ")
}

func formatChatAnswer(answer *domain.ChatAnswer) string {
	var b strings.Builder
	b.WriteString("💬 " + answer.Response)

	for _, suggestion := range answer.Suggestions {
		fmt.Fprintf(&b, "\n  • %s", suggestion.Title)
		if suggestion.DistanceKm != nil {
			fmt.Fprintf(&b, " %s", dimStyle.Render(fmt.Sprintf("(%.1f km)", *suggestion.DistanceKm)))
		}
		if suggestion.IsFree {
			b.WriteString(" " + successStyle.Render("free"))
		}
	}
	for _, link := range answer.ExternalLinks {
		fmt.Fprintf(&b, "\n  🔗 %s: %s", link.Platform, link.URL)
	}
	return b.String()
}

// formatAge renders a rough relative timestamp for list views
func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
