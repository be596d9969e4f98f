// Package config loads dinemap configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dinemap configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote restaurant API
	API APIConfig `yaml:"api"`

	// Local store
	Store StoreConfig `yaml:"store"`

	// Offline write queue
	Queue QueueConfig `yaml:"queue"`

	// Cache gateway
	Cache CacheConfig `yaml:"cache"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote gateway.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StoreConfig configures the sqlite local store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// QueueConfig configures the offline write queue and its connectivity
// monitor.
type QueueConfig struct {
	ProbeInterval string `yaml:"probe_interval"`
}

// CacheConfig configures the cache gateway.
type CacheConfig struct {
	Dir             string   `yaml:"dir"`           // Root directory for cache partitions
	AppName         string   `yaml:"app_name"`      // Prefix for versioned cache names
	Version         string   `yaml:"version"`       // Cache version tag
	Listen          string   `yaml:"listen"`        // Address the gateway serves on
	Upstream        string   `yaml:"upstream"`      // Origin the gateway proxies to
	ManifestPath    string   `yaml:"manifest_path"` // Optional file listing shell assets
	ShellAssets     []string `yaml:"shell_assets"`  // Precache manifest
	ImagePathPrefix string   `yaml:"image_path_prefix"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "dinemap",
		Version: "0.3.0",

		API: APIConfig{
			BaseURL: "http://localhost:1337",
			Timeout: "10s",
		},

		Store: StoreConfig{
			DatabasePath: "data/dinemap.db",
		},

		Queue: QueueConfig{
			ProbeInterval: "15s",
		},

		Cache: CacheConfig{
			Dir:      "data/cache",
			AppName:  "dinemap",
			Version:  "002",
			Listen:   ":8000",
			Upstream: "http://localhost:8080",
			ShellAssets: []string{
				"/",
				"/index.html",
				"/restaurant.html",
				"/css/styles.css",
				"/js/main.js",
				"/js/restaurant_info.js",
				"/img/favicon.png",
			},
			ImagePathPrefix: "/img/",
		},

		Logging: LoggingConfig{
			Level:   "info",
			Enabled: false,
			Dir:     "data",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
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
	if url := os.Getenv("DINEMAP_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if path := os.Getenv("DINEMAP_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if dir := os.Getenv("DINEMAP_CACHE_DIR"); dir != "" {
		c.Cache.Dir = dir
	}
	if upstream := os.Getenv("DINEMAP_CACHE_UPSTREAM"); upstream != "" {
		c.Cache.Upstream = upstream
	}
	if level := os.Getenv("DINEMAP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.Enabled = true
	}
}

// GetAPITimeout returns the remote gateway timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetProbeInterval returns the connectivity probe interval as a duration.
func (c *Config) GetProbeInterval() time.Duration {
	d, err := time.ParseDuration(c.Queue.ProbeInterval)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// ShellCacheName returns the versioned shell cache partition name.
func (c *CacheConfig) ShellCacheName() string {
	return fmt.Sprintf("%s-shell-%s", c.AppName, c.Version)
}

// ImagesCacheName returns the versioned images cache partition name.
func (c *CacheConfig) ImagesCacheName() string {
	return fmt.Sprintf("%s-img-%s", c.AppName, c.Version)
}
