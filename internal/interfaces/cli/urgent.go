package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// newUrgentCommand creates the urgent subcommand
func newUrgentCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urgent",
		Short: "Raise and answer urgent neighbourhood needs",
		Long: `Urgent needs are time-critical requests broadcast to neighbours within
a small radius: a jump starter tonight, a ladder right now. Neighbours
can message you or respond with one of their matching listings.`,
	}

	cmd.AddCommand(newUrgentCreateCommand(container))
	cmd.AddCommand(newUrgentNearbyCommand(container))
	cmd.AddCommand(newUrgentResolveCommand(container))
	cmd.AddCommand(newUrgentMessagesCommand(container))
	cmd.AddCommand(newUrgentSendCommand(container))
	cmd.AddCommand(newUrgentMatchesCommand(container))
	cmd.AddCommand(newUrgentRespondCommand(container))

	return cmd
}

// newUrgentCreateCommand creates the urgent create subcommand
func newUrgentCreateCommand(container *CLIContainer) *cobra.Command {
	var (
		title       string
		description string
		lat         float64
		lng         float64
		radius      float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Raise an urgent need",
		Example: `  nn urgent create --title "Jump starter needed" --description "Car dead, leaving at 7am"
  nn urgent create --title "Ladder today" --description "Gutter overflowing" --radius 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			coords, err := resolveCoordinates(ctx, container, cmd, lat, lng)
			if err != nil {
				return err
			}

			draft := domain.UrgentNeedDraft{
				Title:       title,
				Description: description,
				Lat:         coords.Lat,
				Lng:         coords.Lng,
				RadiusKm:    radius,
			}

			need, err := container.Gateway.CreateUrgentNeed(ctx, draft)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, need, func() string {
				return fmt.Sprintf("🚨 Urgent need raised\n%s", formatUrgentNeedLine(*need))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "What you urgently need")
	cmd.Flags().StringVar(&description, "description", "", "Details neighbours should know")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Broadcast radius in km (default 2)")
	addLocationFlags(cmd, &lat, &lng)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("description")

	return cmd
}

// newUrgentNearbyCommand creates the urgent nearby subcommand
func newUrgentNearbyCommand(container *CLIContainer) *cobra.Command {
	var (
		lat    float64
		lng    float64
		radius float64
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List active urgent needs around you",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			coords, err := resolveCoordinates(ctx, container, cmd, lat, lng)
			if err != nil {
				return err
			}

			needs, err := container.Gateway.NearbyUrgentNeeds(ctx, coords, radius)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, needs, func() string {
				return formatUrgentNeeds(needs)
			})
		},
	}

	addLocationFlags(cmd, &lat, &lng)
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in km (default 2)")

	return cmd
}

// newUrgentResolveCommand creates the urgent resolve subcommand
func newUrgentResolveCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <need-id>",
		Short: "Mark one of your urgent needs as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Gateway.ResolveUrgentNeed(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("✅ Urgent need resolved. Thanks for closing the loop!\n")
			return nil
		},
	}
}

// newUrgentMessagesCommand creates the urgent messages subcommand
func newUrgentMessagesCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <need-id>",
		Short: "Read the conversation on an urgent need",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			messages, err := container.Gateway.UrgentMessages(ctx, args[0])
			if err != nil {
				return err
			}

			selfUID := ""
			if identity, err := container.Identity.CurrentIdentity(ctx); err == nil && identity != nil {
				selfUID = identity.UID()
			}

			return renderResult(cmd, container.Config.Output, messages, func() string {
				if len(messages) == 0 {
					return "💬 No messages yet."
				}
				lines := make([]string, 0, len(messages))
				for _, message := range messages {
					lines = append(lines, formatMessage(message, selfUID))
				}
				return strings.Join(lines, "\n")
			})
		},
	}
}

// newUrgentSendCommand creates the urgent send subcommand
func newUrgentSendCommand(container *CLIContainer) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "send <need-id>",
		Short:   "Send a message on an urgent need",
		Example: `  nn urgent send 42ab... -m "I have one, come by after 6"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sent, err := container.Gateway.SendUrgentMessage(cmd.Context(), args[0], message)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, sent, func() string {
				return "✅ Message sent"
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message text")
	cmd.MarkFlagRequired("message")

	return cmd
}

// newUrgentMatchesCommand creates the urgent matches subcommand
func newUrgentMatchesCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <need-id>",
		Short: "Show your listings that match an urgent need",
		Long: `The backend scores your own listings against an urgent need so you can
respond with one instead of typing an offer out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := container.Gateway.MatchingListings(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, matches, func() string {
				if len(matches) == 0 {
					return "📋 None of your listings match this need."
				}
				lines := make([]string, 0, len(matches))
				for _, match := range matches {
					line := fmt.Sprintf("📦 %s %s", labelStyle.Render(match.Title),
						dimStyle.Render(fmt.Sprintf("(score %d)", match.MatchScore)))
					if match.IsFree {
						line += " " + successStyle.Render("free")
					}
					line += "\n   " + dimStyle.Render("id: "+match.ID)
					lines = append(lines, line)
				}
				return strings.Join(lines, "\n")
			})
		},
	}
}

// newUrgentRespondCommand creates the urgent respond subcommand
func newUrgentRespondCommand(container *CLIContainer) *cobra.Command {
	var listingID string

	cmd := &cobra.Command{
		Use:     "respond <need-id>",
		Short:   "Respond to an urgent need with one of your listings",
		Example: `  nn urgent respond 42ab... --listing 7f3a...`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.Gateway.RespondWithListing(cmd.Context(), args[0], listingID)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, result, func() string {
				if result.Message != "" {
					return fmt.Sprintf("✅ Response sent: %s", result.Message)
				}
				return "✅ Response sent"
			})
		},
	}

	cmd.Flags().StringVar(&listingID, "listing", "", "ID of the listing to respond with")
	cmd.MarkFlagRequired("listing")

	return cmd
}
