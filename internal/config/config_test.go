package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:1337", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.GetAPITimeout())
	assert.Equal(t, 15*time.Second, cfg.GetProbeInterval())
	assert.NotEmpty(t, cfg.Cache.ShellAssets, "default shell manifest must not be empty")
	assert.False(t, cfg.Logging.Enabled, "logging must be opt-in")
}

func TestCacheNames(t *testing.T) {
	cache := CacheConfig{AppName: "dinemap", Version: "002"}
	assert.Equal(t, "dinemap-shell-002", cache.ShellCacheName())
	assert.Equal(t, "dinemap-img-002", cache.ImagesCacheName())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dinemap", cfg.Name)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("DINEMAP_API_URL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: http://api.example.com
  timeout: 3s
cache:
  version: "007"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.GetAPITimeout())
	assert.Equal(t, "007", cfg.Cache.Version)
	// Untouched sections keep their defaults.
	assert.Equal(t, "data/dinemap.db", cfg.Store.DatabasePath)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not: valid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DINEMAP_API_URL", "http://env.example.com")
	t.Setenv("DINEMAP_DB", "/tmp/env.db")
	t.Setenv("DINEMAP_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Store.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Enabled, "a log level override implies enablement")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://saved.example.com"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example.com", loaded.API.BaseURL)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "garbage"
	cfg.Queue.ProbeInterval = ""

	assert.Equal(t, 10*time.Second, cfg.GetAPITimeout())
	assert.Equal(t, 15*time.Second, cfg.GetProbeInterval())
}
