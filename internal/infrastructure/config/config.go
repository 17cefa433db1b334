package configinfra

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"neighbournode.dev/cli/internal/core/domain"
)

const (
	// DefaultAPIURL points at a local backend, which is where the API runs
	// during development.
	DefaultAPIURL = "http://localhost:8000"

	appDirName     = "neighbournode"
	configFileName = "config.json"
)

// Config holds the CLI configuration
type Config struct {
	APIURL          string  `json:"api_url"`
	AuthHost        string  `json:"auth_host,omitempty"`
	AuthTokenHost   string  `json:"auth_token_host,omitempty"`
	AuthAPIKey      string  `json:"auth_api_key,omitempty"`
	DefaultRadiusKm float64 `json:"default_radius_km,omitempty"`
	Output          string  `json:"output,omitempty"`
	Debug           bool    `json:"debug,omitempty"`

	// IDToken is read from the environment only. It lets CI and scripts
	// call authenticated endpoints without the interactive login flow,
	// and is never written to the config file.
	IDToken string `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIURL:          DefaultAPIURL,
		Output:          "text",
		DefaultRadiusKm: domain.DefaultSearchRadiusKm,
	}
}

// ConfigDir returns the directory that holds the config file and
// stored credentials (~/.config/neighbournode).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// ConfigPath returns the config file path. NN_CONFIG overrides the
// default location.
func ConfigPath() (string, error) {
	if path := os.Getenv("NN_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig loads configuration with precedence: env vars > file > defaults.
// A missing config file is fine; a malformed one is an error.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads configuration from an explicit file path, applying
// the same defaults and env overrides as LoadConfig.
func LoadConfigFrom(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// first run, defaults apply
	default:
		return config, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(&config)
	return config, nil
}

// SaveConfig writes configuration to the config file
func SaveConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if err := validateURL("api_url", c.APIURL); err != nil {
		return err
	}
	if c.AuthHost != "" {
		if err := validateURL("auth_host", c.AuthHost); err != nil {
			return err
		}
	}
	if c.AuthTokenHost != "" {
		if err := validateURL("auth_token_host", c.AuthTokenHost); err != nil {
			return err
		}
	}

	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output mode %q (must be text, json or yaml)", c.Output)
	}

	if c.DefaultRadiusKm != 0 {
		if _, err := domain.NewRadiusKm(c.DefaultRadiusKm); err != nil {
			return fmt.Errorf("invalid default_radius_km: %w", err)
		}
	}
	return nil
}

func validateURL(field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", field, raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", field, raw)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("NN_API_URL"); v != "" {
		config.APIURL = v
	}
	if v := os.Getenv("NN_AUTH_HOST"); v != "" {
		config.AuthHost = v
	}
	if v := os.Getenv("NN_AUTH_TOKEN_HOST"); v != "" {
		config.AuthTokenHost = v
	}
	if v := os.Getenv("NN_AUTH_API_KEY"); v != "" {
		config.AuthAPIKey = v
	}
	if v := os.Getenv("NN_OUTPUT"); v != "" {
		config.Output = v
	}
	if v := os.Getenv("NN_RADIUS_KM"); v != "" {
		if radius, err := strconv.ParseFloat(v, 64); err == nil && radius > 0 {
			config.DefaultRadiusKm = radius
		}
	}
	if v := os.Getenv("NN_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			config.Debug = debug
		}
	}
	if v := os.Getenv("NN_ID_TOKEN"); v != "" {
		config.IDToken = v
	}
}
