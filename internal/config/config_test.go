package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7758, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, -1, cfg.Validation.MaxUsernameLength)
	assert.Equal(t, int64(100), cfg.Validation.MinDurationMs)
	assert.False(t, cfg.Notify.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9000
  static_dir: web
database:
  driver: sqlite
  path: /tmp/test-splits.db
validation:
  max_username_length: 16
  username_blacklist: [admin]
  min_duration_ms: 500
  max_duration_ms: 60000
notify:
  enabled: true
  webhook_url: https://example.com/hook
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "/tmp/test-splits.db", cfg.Database.Path)
	assert.Equal(t, 16, cfg.Validation.MaxUsernameLength)
	assert.Equal(t, []string{"admin"}, cfg.Validation.UsernameBlacklist)
	assert.Equal(t, int64(500), cfg.Validation.MinDurationMs)
	assert.True(t, cfg.Notify.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownDriver", "database:\n  driver: mysql\n"},
		{"PostgresWithoutURL", "database:\n  driver: postgres\n"},
		{"BadPort", "server:\n  port: -1\n"},
		{"NotifyWithoutURL", "notify:\n  enabled: true\n"},
		{"MaxBelowMin", "validation:\n  min_duration_ms: 5000\n  max_duration_ms: 100\n"},
		{"NegativeRateLimit", "server:\n  rate_limit_per_min: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestZeroRateLimitIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  rate_limit_per_min: 0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Server.RateLimitPerMin)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPLITS_PORT", "8123")
	t.Setenv("SPLITS_DB", "/tmp/env-splits.db")
	t.Setenv("SPLITS_WEBHOOK_URL", "https://example.com/env-hook")
	t.Setenv("SPLITS_ENDPOINT", "https://splits.example.com/api/v0/split/new")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "/tmp/env-splits.db", cfg.Database.Path)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, "https://example.com/env-hook", cfg.Notify.WebhookURL)
	assert.Equal(t, "https://splits.example.com/api/v0/split/new", cfg.Client.Endpoint)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Validation.UsernameWhitelist = []string{"alice", "bob"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, []string{"alice", "bob"}, loaded.Validation.UsernameWhitelist)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notify.Timeout = "bogus"
	cfg.Client.ActivateDelay = ""

	assert.Equal(t, "10s", cfg.NotifyTimeout().String())
	assert.Equal(t, "50ms", cfg.ActivateDelay().String())
}
