package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/infrastructure/auth"
)

// newAuthCommand creates the auth subcommand
func newAuthCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage your Neighbour Node sign-in",
		Long:  `Sign in and out of Neighbour Node and inspect the current session.`,
	}

	cmd.AddCommand(newAuthLoginCommand(container))
	cmd.AddCommand(newAuthStatusCommand(container))
	cmd.AddCommand(newAuthLogoutCommand(container))
	cmd.AddCommand(newAuthMeCommand(container))

	return cmd
}

// newAuthLoginCommand creates the auth login subcommand
func newAuthLoginCommand(container *CLIContainer) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in to Neighbour Node. Credentials are stored encrypted under
~/.config/neighbournode and the session refreshes itself from then on.`,
		Example: `  nn auth login --email ada@example.com
  nn auth login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Session == nil {
				return fmt.Errorf("NN_ID_TOKEN is set, unset it to use interactive login")
			}

			var err error
			if email == "" {
				if email, err = readInput("Email: "); err != nil {
					return err
				}
			}
			if email == "" {
				return fmt.Errorf("email is required")
			}

			if password == "" {
				if password, err = readSecureInput("Password: "); err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			creds, err := container.Session.SignIn(cmd.Context(), email, password)
			if err != nil {
				var identityErr *auth.IdentityError
				if errors.As(err, &identityErr) {
					return fmt.Errorf("sign-in failed: %s", identityErr.Friendly())
				}
				return fmt.Errorf("sign-in failed: %w", err)
			}

			fmt.Printf("✅ Signed in as %s\n", creds.Email)
			fmt.Printf("🔑 Session valid until %s\n", creds.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")

	return cmd
}

// newAuthStatusCommand creates the auth status subcommand
func newAuthStatusCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current sign-in status",
		Long:  `Display who is signed in locally and how long the session token is still valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Session == nil {
				fmt.Printf("🔑 Using identity token from NN_ID_TOKEN\n")
				return nil
			}

			creds, err := container.Session.Credentials()
			if err != nil {
				return fmt.Errorf("failed to read stored credentials: %w", err)
			}
			if creds == nil {
				fmt.Printf("🔒 Not signed in\n")
				fmt.Printf("   Run 'nn auth login' to sign in\n")
				return nil
			}

			fmt.Printf("🔑 Signed in as %s\n", creds.Email)
			switch {
			case creds.IsExpired() && creds.RefreshToken == "":
				fmt.Printf("%s\n", warnStyle.Render("⚠️  Session expired, run 'nn auth login' again"))
			case creds.IsExpired():
				fmt.Printf("⏳ Token expired, it will refresh on the next request\n")
			default:
				fmt.Printf("⏳ Token valid for another %s\n", creds.TimeUntilExpiry().Round(time.Second))
			}
			return nil
		},
	}
}

// newAuthLogoutCommand creates the auth logout subcommand
func newAuthLogoutCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Session == nil {
				return fmt.Errorf("NN_ID_TOKEN is set, unset it instead of logging out")
			}
			if err := container.Session.SignOut(); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}

			fmt.Printf("✅ Signed out\n")
			return nil
		},
	}
}

// newAuthMeCommand creates the auth me subcommand
func newAuthMeCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the identity the backend sees",
		Long:  `Calls the backend with your current token and prints the verified identity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := container.Gateway.Me(cmd.Context())
			if err != nil {
				return err
			}

			return renderResult(cmd, container.Config.Output, info, func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "🔑 UID:   %s\n", info.UID)
				fmt.Fprintf(&b, "📧 Email: %s", info.Email)
				if info.Name != "" {
					fmt.Fprintf(&b, "\n👤 Name:  %s", info.Name)
				}
				if info.EmailVerified {
					fmt.Fprintf(&b, "\n✅ Email verified")
				}
				return b.String()
			})
		},
	}
}
