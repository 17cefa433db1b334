package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// newProfileCommand creates the profile subcommand
func newProfileCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update your neighbourhood profile",
		Long: `Your profile carries the display name neighbours see and the home
location used as the default centre for nearby searches.`,
	}

	cmd.AddCommand(newProfileGetCommand(container))
	cmd.AddCommand(newProfileSetCommand(container))

	return cmd
}

// newProfileGetCommand creates the profile get subcommand
func newProfileGetCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show your stored profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := container.Gateway.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				fmt.Printf("📋 No profile yet. Create one with 'nn profile set'.\n")
				return nil
			}

			return renderResult(cmd, container.Config.Output, profile, func() string {
				return formatProfile(profile)
			})
		},
	}
}

// newProfileSetCommand creates the profile set subcommand
func newProfileSetCommand(container *CLIContainer) *cobra.Command {
	var (
		displayName string
		bio         string
		photoURL    string
		lat         float64
		lng         float64
		radius      float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update your profile",
		Long: `Create or update your profile. Only the flags you pass change;
everything else keeps its stored value.`,
		Example: `  nn profile set --name "Ada" --lat 52.52 --lng 13.405
  nn profile set --bio "Happy to lend tools" --radius 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			current, err := container.Gateway.Profile(ctx)
			if err != nil {
				return err
			}

			profile := domain.UserProfile{}
			if current != nil {
				profile = *current
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				profile.DisplayName = displayName
			}
			if flags.Changed("bio") {
				profile.Bio = bio
			}
			if flags.Changed("photo-url") {
				profile.PhotoURL = photoURL
			}
			if flags.Changed("lat") {
				profile.Lat = lat
			}
			if flags.Changed("lng") {
				profile.Lng = lng
			}
			if flags.Changed("radius") {
				profile.RadiusKmDefault = radius
			}

			if err := container.Gateway.SaveProfile(ctx, profile); err != nil {
				return err
			}

			fmt.Printf("✅ Profile saved\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name shown to neighbours")
	cmd.Flags().StringVar(&bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "Profile photo URL")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Home latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Home longitude")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Default search radius in km")

	return cmd
}
