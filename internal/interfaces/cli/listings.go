package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// newListingsCommand creates the listings subcommand
func newListingsCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"listing"},
		Short:   "Offer and browse items in your neighbourhood",
		Long: `Listings are what neighbours put on the board: items to give away,
things they are looking for, or skills they offer.`,
	}

	cmd.AddCommand(newListingsCreateCommand(container))
	cmd.AddCommand(newListingsNearbyCommand(container))
	cmd.AddCommand(newListingsUpdateCommand(container))

	return cmd
}

// newListingsCreateCommand creates the listings create subcommand
func newListingsCreateCommand(container *CLIContainer) *cobra.Command {
	var (
		title       string
		description string
		listingType string
		category    string
		free        bool
		trade       bool
		lat         float64
		lng         float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Put a new listing on the board",
		Example: `  nn listings create --title "Ladder" --description "3m, sturdy" --free
  nn listings create --title "Need a drill" --type request --description "Just for a weekend"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			coords, err := resolveCoordinates(ctx, container, cmd, lat, lng)
			if err != nil {
				return err
			}

			draft := domain.ListingDraft{
				Title:       title,
				Description: description,
				Type:        domain.ListingType(listingType),
				IsFree:      free,
				IsTrade:     trade,
				Category:    category,
				Lat:         coords.Lat,
				Lng:         coords.Lng,
			}

			listing, err := container.Gateway.CreateListing(ctx, draft)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, listing, func() string {
				return fmt.Sprintf("✅ Listing created\n%s", formatListingLine(*listing))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Listing title")
	cmd.Flags().StringVar(&description, "description", "", "What you are offering or looking for")
	cmd.Flags().StringVar(&listingType, "type", "offer", "Listing type: offer, request or skill")
	cmd.Flags().StringVar(&category, "category", "", "Free-form category, e.g. tools, food, garden")
	cmd.Flags().BoolVar(&free, "free", false, "Mark the listing as free")
	cmd.Flags().BoolVar(&trade, "trade", false, "Mark the listing as open to trades")
	addLocationFlags(cmd, &lat, &lng)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("description")

	return cmd
}

// newListingsNearbyCommand creates the listings nearby subcommand
func newListingsNearbyCommand(container *CLIContainer) *cobra.Command {
	var (
		lat    float64
		lng    float64
		radius float64
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Browse listings around you",
		Example: `  nn listings nearby
  nn listings nearby --radius 10
  nn listings nearby --lat 52.52 --lng 13.405 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			coords, err := resolveCoordinates(ctx, container, cmd, lat, lng)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("radius") {
				radius = container.Config.DefaultRadiusKm
			}

			listings, err := container.Gateway.NearbyListings(ctx, coords, radius)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, listings, func() string {
				return formatListings(listings)
			})
		},
	}

	addLocationFlags(cmd, &lat, &lng)
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in km")

	return cmd
}

// newListingsUpdateCommand creates the listings update subcommand
func newListingsUpdateCommand(container *CLIContainer) *cobra.Command {
	var (
		status      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <listing-id>",
		Short: "Update one of your listings",
		Long: `Update the status or description of a listing you own. Fields you
do not pass stay as they are.`,
		Example: `  nn listings update 7f3a... --status reserved
  nn listings update 7f3a... --description "Now with a spare battery"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := domain.ListingPatch{}
			flags := cmd.Flags()
			if flags.Changed("status") {
				value := domain.ListingStatus(status)
				patch.Status = &value
			}
			if flags.Changed("description") {
				patch.Description = &description
			}

			listing, err := container.Gateway.UpdateListing(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, listing, func() string {
				return fmt.Sprintf("✅ Listing updated\n%s", formatListingLine(*listing))
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status: active, reserved, completed or expired")
	cmd.Flags().StringVar(&description, "description", "", "New description")

	return cmd
}
