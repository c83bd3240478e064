// Package config loads the splits configuration from a YAML file with
// environment variable overrides. Loaded once at startup and treated as
// immutable, except for the validation rules which serve can hot-reload.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blaine-t/splits/internal/split"
)

// Config holds all splits configuration.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Validation split.Rules    `yaml:"validation"`
	Notify     NotifyConfig   `yaml:"notify"`
	Client     ClientConfig   `yaml:"client"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	// MaxConns caps concurrently accepted connections (netutil.LimitListener).
	MaxConns int `yaml:"max_conns"`
	// RateLimitPerMin is the per-IP request budget for the API. 0 disables
	// rate limiting.
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// Path is the sqlite database file.
	Path string `yaml:"path"`
	// URL is the postgres connection string, used when Driver is "postgres".
	URL string `yaml:"url"`
}

// NotifyConfig configures the webhook notifier.
type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Timeout    string `yaml:"timeout"`
}

// ClientConfig configures the wizard TUI.
type ClientConfig struct {
	// Endpoint is the split submission URL.
	Endpoint string `yaml:"endpoint"`
	// CachePath stores the remembered username; empty selects a file under
	// the user config dir.
	CachePath string `yaml:"cache_path"`
	// ActivateDelay is how long a screen transition waits before the new
	// screen counts as active, so the transition effect can register.
	ActivateDelay string `yaml:"activate_delay"`
	Timeout       string `yaml:"timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            7758,
			StaticDir:       "static",
			MaxConns:        256,
			RateLimitPerMin: 120,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "data/splits.db",
		},
		Validation: split.DefaultRules(),
		Notify: NotifyConfig{
			Enabled: false,
			Timeout: "10s",
		},
		Client: ClientConfig{
			Endpoint:      "http://localhost:7758/api/v0/split/new",
			ActivateDelay: "50ms",
			Timeout:       "10s",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("SPLITS_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SPLITS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dir := os.Getenv("SPLITS_STATIC_DIR"); dir != "" {
		c.Server.StaticDir = dir
	}
	if driver := os.Getenv("SPLITS_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if path := os.Getenv("SPLITS_DB"); path != "" {
		c.Database.Path = path
	}
	if url := os.Getenv("SPLITS_DB_URL"); url != "" {
		c.Database.URL = url
	}
	if url := os.Getenv("SPLITS_WEBHOOK_URL"); url != "" {
		c.Notify.WebhookURL = url
		c.Notify.Enabled = true
	}
	if url := os.Getenv("SPLITS_ENDPOINT"); url != "" {
		c.Client.Endpoint = url
	}
}

// Validate checks loaded values for configuration mistakes that would
// otherwise surface as confusing runtime failures.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q (want sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("database driver postgres requires database.url")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.RateLimitPerMin < 0 {
		return fmt.Errorf("server.rate_limit_per_min must not be negative (0 disables limiting)")
	}
	if c.Notify.Enabled && c.Notify.WebhookURL == "" {
		return fmt.Errorf("notify.enabled requires notify.webhook_url")
	}
	if c.Validation.MinDurationMs < 0 {
		return fmt.Errorf("validation.min_duration_ms must not be negative")
	}
	if c.Validation.MaxDurationMs > 0 && c.Validation.MaxDurationMs < c.Validation.MinDurationMs {
		return fmt.Errorf("validation.max_duration_ms is below validation.min_duration_ms")
	}
	return nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NotifyTimeout returns the webhook timeout as a duration.
func (c *Config) NotifyTimeout() time.Duration {
	return parseDuration(c.Notify.Timeout, 10*time.Second)
}

// ClientTimeout returns the submission timeout as a duration.
func (c *Config) ClientTimeout() time.Duration {
	return parseDuration(c.Client.Timeout, 10*time.Second)
}

// ActivateDelay returns the screen activation delay as a duration.
func (c *Config) ActivateDelay() time.Duration {
	return parseDuration(c.Client.ActivateDelay, 50*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// DefaultCachePath returns the username cache location under the user config
// dir when the config does not pin one.
func (c *Config) DefaultCachePath() string {
	if c.Client.CachePath != "" {
		return c.Client.CachePath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".splits-cache.json"
	}
	return filepath.Join(dir, "splits", "cache.json")
}
