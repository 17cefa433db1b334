package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// newReactCommand creates the react subcommand
func newReactCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "react",
		Short: "React to listings and urgent needs",
		Long: `Reactions are lightweight responses: like, helpful, available or
unavailable. You get one reaction per item; reacting again replaces it.`,
	}

	cmd.AddCommand(newReactAddCommand(container))
	cmd.AddCommand(newReactListCommand(container))

	return cmd
}

// newReactAddCommand creates the react add subcommand
func newReactAddCommand(container *CLIContainer) *cobra.Command {
	var reactionType string

	cmd := &cobra.Command{
		Use:   "add <listing|urgent> <id>",
		Short: "Add or replace your reaction",
		Example: `  nn react add listing 7f3a... --type like
  nn react add urgent 42ab... --type available`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reaction := domain.ReactionType(reactionType)

			var err error
			switch args[0] {
			case "listing", "listings":
				_, err = container.Gateway.ReactToListing(ctx, args[1], reaction)
			case "urgent":
				_, err = container.Gateway.ReactToUrgentNeed(ctx, args[1], reaction)
			default:
				return fmt.Errorf("unknown target %q (must be listing or urgent)", args[0])
			}
			if err != nil {
				return err
			}

			emoji, ok := reactionEmoji[reaction]
			if !ok {
				emoji = "✅"
			}
			fmt.Printf("%s Reacted with %s\n", emoji, reactionType)
			return nil
		},
	}

	cmd.Flags().StringVar(&reactionType, "type", "", "Reaction type: like, helpful, available or unavailable")
	cmd.MarkFlagRequired("type")

	return cmd
}

// newReactListCommand creates the react list subcommand
func newReactListCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "list <listing|urgent> <id>",
		Short: "Show reactions on a listing or urgent need",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var reactions []domain.Reaction
			var err error
			switch args[0] {
			case "listing", "listings":
				reactions, err = container.Gateway.ListingReactions(ctx, args[1])
			case "urgent":
				reactions, err = container.Gateway.UrgentNeedReactions(ctx, args[1])
			default:
				return fmt.Errorf("unknown target %q (must be listing or urgent)", args[0])
			}
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, reactions, func() string {
				return formatReactionCounts(reactions)
			})
		},
	}
}
