package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCommand creates the status command
func newStatusCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend reachability and sign-in state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fmt.Printf("🌐 Backend: %s\n", container.Config.APIURL)
			if err := container.Gateway.Health(ctx); err != nil {
				fmt.Printf("%s %v\n", errorStyle.Render("❌ Backend unreachable:"), err)
			} else {
				fmt.Printf("%s\n", successStyle.Render("✅ Backend healthy"))
			}

			identity, err := container.Identity.CurrentIdentity(ctx)
			if err != nil {
				return fmt.Errorf("failed to read sign-in state: %w", err)
			}
			if identity == nil {
				fmt.Printf("🔒 Not signed in. Run 'nn auth login' to sign in.\n")
				return nil
			}

			fmt.Printf("🔑 Signed in as %s\n", identity.Email())
			return nil
		},
	}
}
