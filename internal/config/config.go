// Package config loads the dayflow configuration from a YAML file,
// applies DAYFLOW_* environment overrides, and resolves XDG data
// directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dayflow configuration.
type Config struct {
	DataDir string `yaml:"data_dir"`

	Engine EngineConfig `yaml:"engine"`
	Cache  CacheConfig  `yaml:"cache"`

	// Optional backing services. Empty values keep everything
	// in-process.
	PostgresDSN  string `yaml:"postgres_dsn"`
	RedisAddr    string `yaml:"redis_addr"`
	NatsURL      string `yaml:"nats_url"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	MetricsAddr  string `yaml:"metrics_addr"`
}

// EngineConfig tunes the pattern engine.
type EngineConfig struct {
	Capacity          int           `yaml:"capacity"`
	DebounceInterval  time.Duration `yaml:"debounce_interval"`
	RecommendationTTL time.Duration `yaml:"recommendation_ttl"`
}

// CacheConfig tunes the actionable insight cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// Default returns the default configuration rooted in the XDG data
// directory.
func Default() (*Config, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return &Config{
		DataDir: filepath.Join(dataHome, "dayflow"),
		Engine: EngineConfig{
			Capacity:          2000,
			DebounceInterval:  1500 * time.Millisecond,
			RecommendationTTL: 30 * time.Second,
		},
		Cache: CacheConfig{
			TTL:        30 * time.Second,
			MaxEntries: 5,
		},
		MetricsAddr: ":9090",
	}, nil
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file is absent), then environment
// overrides.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv overrides fields from DAYFLOW_* environment variables.
// Environment takes precedence over the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DAYFLOW_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DAYFLOW_POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("DAYFLOW_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("DAYFLOW_NATS_URL"); v != "" {
		c.NatsURL = v
	}
	if v := os.Getenv("DAYFLOW_OTLP_ENDPOINT"); v != "" {
		c.OTLPEndpoint = v
	}
	if v := os.Getenv("DAYFLOW_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("DAYFLOW_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.Capacity = n
		}
	}
	if v := os.Getenv("DAYFLOW_DEBOUNCE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Engine.DebounceInterval = d
		}
	}
	if v := os.Getenv("DAYFLOW_RECOMMENDATION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Engine.RecommendationTTL = d
		}
	}
	if v := os.Getenv("DAYFLOW_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
}

func (c *Config) validate() error {
	if c.Engine.Capacity <= 0 {
		return fmt.Errorf("engine capacity must be positive, got %d", c.Engine.Capacity)
	}
	if c.Engine.DebounceInterval <= 0 {
		return fmt.Errorf("debounce interval must be positive, got %v", c.Engine.DebounceInterval)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// EnsureDataDir creates the data directory if it is missing.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// DefaultPath returns the conventional config file location,
// honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "dayflow", "config.yaml")
}
