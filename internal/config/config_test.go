package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("{}\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, empty)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 18, cfg.Discovery.MinAge)
	assert.Equal(t, 100, cfg.Discovery.MaxAge)
	assert.Equal(t, 15*time.Minute, cfg.Discovery.OnlineWindow)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("port: \"9000\"\nstore_backend: memory\ndiscovery:\n  default_page_size: 10\n  online_window: 5m\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DISCOVERY_DEFAULT_PAGE_SIZE", "30")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 30, cfg.Discovery.DefaultPageSize)
	assert.Equal(t, 5*time.Minute, cfg.Discovery.OnlineWindow)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"production with default secret", func(c *Config) { c.Environment = "production" }, true},
		{"memory store in production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "real"
			c.StoreBackend = "memory"
		}, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "mongo" }, true},
		{"inverted ages", func(c *Config) { c.Discovery.MinAge = 50; c.Discovery.MaxAge = 30 }, true},
		{"underage floor", func(c *Config) { c.Discovery.MinAge = 16 }, true},
		{"page size over max", func(c *Config) { c.Discovery.DefaultPageSize = 500 }, true},
		{"no workers", func(c *Config) { c.Discovery.ScoreWorkers = 0 }, true},
		{"zero refresh interval", func(c *Config) { c.Discovery.PoolRefreshInterval = 0 }, true},
		{"negative refresh interval", func(c *Config) { c.Discovery.PoolRefreshInterval = -time.Second }, true},
		{"negative cache ttl", func(c *Config) { c.Discovery.PoolCacheTTL = -1 }, true},
		{"cache ttl without expiry", func(c *Config) { c.Discovery.PoolCacheTTL = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsZeroRefreshInterval(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("{}\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, empty)
	t.Setenv("DISCOVERY_POOL_REFRESH_INTERVAL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Discovery.PoolRefreshInterval)
	assert.EqualError(t, cfg.Validate(), "pool refresh interval must be positive")
}

func TestLoadAllowedOrigins(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("{}\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, empty)
	t.Setenv("ALLOWED_ORIGINS", "https://app.kiekky.com, https://admin.kiekky.com,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.kiekky.com", "https://admin.kiekky.com"}, cfg.AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "discovery.max_page_size", envKey("DISCOVERY_MAX_PAGE_SIZE"))
	assert.Equal(t, "database_url", envKey("DATABASE_URL"))
}
