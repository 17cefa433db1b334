package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	apphttp "neighbournode.dev/cli/internal/application/http"
	authports "neighbournode.dev/cli/internal/core/ports/auth"
	"neighbournode.dev/cli/internal/infrastructure/api"
	"neighbournode.dev/cli/internal/infrastructure/auth"
	configinfra "neighbournode.dev/cli/internal/infrastructure/config"
	httpinfra "neighbournode.dev/cli/internal/infrastructure/http"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Config   configinfra.Config
	Identity authports.IdentityProvider
	Session  *auth.Session // nil when NN_ID_TOKEN pins a static identity
	Client   *apphttp.BackendClient
	Gateway  *api.Gateway
}

// NewCLIContainer wires the dependency graph from configuration
func NewCLIContainer(config configinfra.Config) (*CLIContainer, error) {
	container := &CLIContainer{}
	if err := container.configure(config); err != nil {
		return nil, err
	}
	return container, nil
}

// configure (re)builds every dependency from the given configuration.
// It is also called when global flags override the loaded config.
func (c *CLIContainer) configure(config configinfra.Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if config.Debug {
		httpClient.Transport = httpinfra.NewDebugTransport(nil)
	}

	var identities authports.IdentityProvider
	if config.IDToken != "" {
		identities = auth.NewStaticProvider(auth.NewStaticIdentityFromToken(config.IDToken))
		c.Session = nil
	} else {
		configDir, err := configinfra.ConfigDir()
		if err != nil {
			return err
		}
		store, err := auth.NewSecureCredentialsStore(configDir)
		if err != nil {
			return fmt.Errorf("failed to open credentials store: %w", err)
		}
		identityClient := auth.NewIdentityClient(config.AuthHost, config.AuthTokenHost, config.AuthAPIKey, httpClient)
		c.Session = auth.NewSession(identityClient, store)
		identities = c.Session
	}

	client := apphttp.NewBackendClient(config.APIURL, userAgent(), httpClient, apphttp.NewAuthHeaderService(identities))

	c.Config = config
	c.Identity = identities
	c.Client = client
	c.Gateway = api.NewGateway(client)
	return nil
}

func userAgent() string {
	return fmt.Sprintf("neighbournode-cli/%s", Version)
}

// NewRootCommand builds the nn command tree
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "nn",
		Short: "Neighbour Node CLI - hyperlocal sharing from the terminal",
		Long: `nn is the terminal client for Neighbour Node, the hyperlocal sharing
network. Offer and find items close to home, raise urgent needs, message
neighbours and ask the assistant, all without leaving the shell.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyFlagOverrides(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("api-url", "", "Backend API URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.config/neighbournode/config.json)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")

	rootCmd.AddCommand(newAuthCommand(container))
	rootCmd.AddCommand(newProfileCommand(container))
	rootCmd.AddCommand(newListingsCommand(container))
	rootCmd.AddCommand(newUrgentCommand(container))
	rootCmd.AddCommand(newReactCommand(container))
	rootCmd.AddCommand(newChatCommand(container))
	rootCmd.AddCommand(newStatusCommand(container))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyFlagOverrides rewires the container when global flags change the
// effective configuration. Only explicitly set flags count, so config
// file and environment values survive untouched otherwise.
func applyFlagOverrides(cmd *cobra.Command, container *CLIContainer) error {
	config := container.Config
	changed := false

	if cmd.Flags().Changed("config") {
		path, _ := cmd.Flags().GetString("config")
		fresh, err := configinfra.LoadConfigFrom(path)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		config = fresh
		changed = true
	}
	if cmd.Flags().Changed("api-url") {
		config.APIURL, _ = cmd.Flags().GetString("api-url")
		changed = true
	}
	if cmd.Flags().Changed("output") {
		config.Output, _ = cmd.Flags().GetString("output")
		changed = true
	}
	if cmd.Flags().Changed("debug") {
		config.Debug, _ = cmd.Flags().GetBool("debug")
		changed = true
	}

	if !changed {
		return nil
	}
	return container.configure(config)
}

// newVersionCommand reports build details
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nn version %s\n", Version)
			fmt.Printf("Build time: %s\n", BuildTime)
			fmt.Printf("Go version: %s\n", goVersion())
			fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
