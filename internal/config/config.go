// Package config provides configuration management for the options wizard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

const (
	// defaultFeedTimeout is used when feed.timeout is unset
	defaultFeedTimeout = "10s"
	// defaultServerPort is used when server.port is unset
	defaultServerPort = 8080
)

// defaultCurrencies is the allowlist applied when feed.currencies is unset.
// The feed lists more underlyings than the wizard supports.
var defaultCurrencies = []string{"BTC", "ETH"}

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Feed        FeedConfig        `yaml:"feed"`
	Server      ServerConfig      `yaml:"server"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	Mode     string `yaml:"mode"`      // live | paper
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// FeedConfig defines market-data feed settings.
type FeedConfig struct {
	Endpoint string `yaml:"endpoint"` // empty = public production API
	Timeout  string `yaml:"timeout"`
	// Currencies is the underlying allowlist offered to the user.
	Currencies []string `yaml:"currencies"`
}

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	c.normalize()

	if c.Environment.Mode != "live" && c.Environment.Mode != "paper" {
		return fmt.Errorf("environment.mode must be 'live' or 'paper'")
	}
	switch c.Environment.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be debug, info, warn, or error")
	}

	if _, err := time.ParseDuration(c.Feed.Timeout); err != nil {
		return fmt.Errorf("feed.timeout invalid: %w", err)
	}
	if len(c.Feed.Currencies) == 0 {
		return fmt.Errorf("feed.currencies must not be empty")
	}
	for _, cur := range c.Feed.Currencies {
		if strings.TrimSpace(cur) == "" {
			return fmt.Errorf("feed.currencies contains an empty entry")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535]")
	}

	return nil
}

// normalize fills defaults for unset optional values.
func (c *Config) normalize() {
	if c.Feed.Timeout == "" {
		c.Feed.Timeout = defaultFeedTimeout
	}
	if len(c.Feed.Currencies) == 0 {
		c.Feed.Currencies = append([]string(nil), defaultCurrencies...)
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultServerPort
	}
}

// IsPaperTrading returns true if the wizard should serve synthetic market data.
func (c *Config) IsPaperTrading() bool {
	return c.Environment.Mode == "paper"
}

// GetFeedTimeout returns the configured feed timeout duration.
func (c *Config) GetFeedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Feed.Timeout)
	if err != nil {
		return 10 * time.Second // default
	}
	return d
}

// AllowsCurrency reports whether a currency is in the configured allowlist.
func (c *Config) AllowsCurrency(currency string) bool {
	for _, cur := range c.Feed.Currencies {
		if strings.EqualFold(cur, currency) {
			return true
		}
	}
	return false
}
