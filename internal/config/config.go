package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all unimail configuration.
type Config struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Registry  RegistryConfig  `toml:"registry"`
	Accounts  AccountsConfig  `toml:"accounts"`
	Gmail     GmailConfig     `toml:"gmail"`
}

// GmailConfig holds Gmail OAuth credentials.
// Environment variables take over when these are empty.
type GmailConfig struct {
	ClientID      string `toml:"client_id"`
	ClientSecret  string `toml:"client_secret"`
	VerifyProfile bool   `toml:"verify_profile"`
}

// DiscoveryConfig controls account discovery.
type DiscoveryConfig struct {
	Timeout string   `toml:"timeout"`
	Sources []string `toml:"sources"`
}

// RegistryConfig holds settings of the unified account registry.
type RegistryConfig struct {
	Authority string `toml:"authority"`
}

// AccountsConfig holds account selection settings. LastViewed and
// LastSentFrom are recorded by unimail itself.
type AccountsConfig struct {
	Default      string `toml:"default"`
	LastViewed   string `toml:"last_viewed"`
	LastSentFrom string `toml:"last_sent_from"`
}

// Preferred returns the non-empty account preferences, strongest first:
// the configured default, then the last viewed, then the last sent-from
// account.
func (a AccountsConfig) Preferred() []string {
	var out []string
	for _, v := range []string{a.Default, a.LastViewed, a.LastSentFrom} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

var knownSources = map[string]bool{"gmail": true, "email": true, "mock": true}

func defaults() Config {
	return Config{
		Discovery: DiscoveryConfig{
			Timeout: "30s",
			Sources: []string{"gmail", "email"},
		},
		Registry: RegistryConfig{
			Authority: "unimail",
		},
	}
}

// Load reads config from path. If path is empty, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path as TOML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := c.Discovery.TimeoutDuration(); err != nil {
		return err
	}
	for _, s := range c.Discovery.Sources {
		if !knownSources[s] {
			return fmt.Errorf("unknown discovery source %q", s)
		}
	}
	if c.Registry.Authority == "" {
		return fmt.Errorf("registry authority must not be empty")
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value means no override.
func (d DiscoveryConfig) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}
	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("failed to parse discovery timeout: %w", err)
	}
	if t < 0 {
		return 0, fmt.Errorf("discovery timeout must not be negative: %s", d.Timeout)
	}
	return t, nil
}

// ConfigDir returns the unimail config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "unimail")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "unimail")
}

// DataDir returns the unimail data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "unimail")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "unimail")
}
