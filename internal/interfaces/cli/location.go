package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// resolveCoordinates returns the search centre for a command. Explicit
// --lat/--lng flags win; otherwise the home location stored on the
// profile is used.
func resolveCoordinates(ctx context.Context, container *CLIContainer, cmd *cobra.Command, lat, lng float64) (domain.Coordinates, error) {
	flags := cmd.Flags()
	if flags.Changed("lat") || flags.Changed("lng") {
		if !flags.Changed("lat") || !flags.Changed("lng") {
			return domain.Coordinates{}, fmt.Errorf("--lat and --lng must be given together")
		}
		return domain.NewCoordinates(lat, lng)
	}

	profile, err := container.Gateway.Profile(ctx)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to load profile for default location: %w", err)
	}
	if profile == nil {
		return domain.Coordinates{}, fmt.Errorf("no location given and no profile stored, pass --lat/--lng or run 'nn profile set'")
	}
	return domain.NewCoordinates(profile.Lat, profile.Lng)
}

func addLocationFlags(cmd *cobra.Command, lat, lng *float64) {
	cmd.Flags().Float64Var(lat, "lat", 0, "Latitude (defaults to your profile location)")
	cmd.Flags().Float64Var(lng, "lng", 0, "Longitude (defaults to your profile location)")
}
