package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// CallbackPath is the fixed path component of the private callback scheme.
// The full scheme is derived from the application bundle identifier and is
// constant for the process lifetime.
const CallbackPath = "oauth_callback"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	App      AppConfig      `toml:"app"`
	IDP      IDPConfig      `toml:"idp"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// AppConfig identifies the embedding shell application.
type AppConfig struct {
	BundleID   string `toml:"bundle_id"`
	Capability string `toml:"capability"`
}

// CallbackScheme returns the private callback scheme for this application,
// of the form <bundle-id>://oauth_callback.
func (a AppConfig) CallbackScheme() string {
	return fmt.Sprintf("%s://%s", a.BundleID, CallbackPath)
}

// IDPConfig contains identity provider settings for building authorize URLs.
type IDPConfig struct {
	ClientID string   `toml:"client_id"`
	AuthURL  string   `toml:"auth_url"`
	Scopes   []string `toml:"scopes"`
}

// ServerConfig contains settings for the local bridge listener.
type ServerConfig struct {
	Host       string  `toml:"host"`
	Port       int     `toml:"port"`
	BridgeRate float64 `toml:"bridge_rate"` // bridge commands per second
}

// DatabaseConfig contains audit database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration to a TOML file at the specified path.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
