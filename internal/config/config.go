package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/logsift/logsift/internal/scoring"
	"github.com/logsift/logsift/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLogsiftEnv             = "LOGSIFT_ENV"
	EnvLogsiftShutdownTimeout = "LOGSIFT_SHUTDOWN_TIMEOUT"
	EnvLogsiftVersion         = "LOGSIFT_VERSION"
)

var storageEnv = &storage.Env{
	ConnectionString: "LOGSIFT_STORAGE_CONNECTION_STRING",
	ServiceURL:       "LOGSIFT_STORAGE_SERVICE_URL",
	LogsContainer:    "LOGSIFT_STORAGE_LOGS_CONTAINER",
	ResultsContainer: "LOGSIFT_STORAGE_RESULTS_CONTAINER",
	MaxListSize:      "LOGSIFT_STORAGE_MAX_LIST_SIZE",
}

var scoringEnv = &scoring.Env{
	Model:           "LOGSIFT_SCORING_MODEL",
	ThresholdColumn: "LOGSIFT_SCORING_THRESHOLD_COLUMN",
	ThresholdCutoff: "LOGSIFT_SCORING_THRESHOLD_CUTOFF",
}

// Config is the root configuration for the Logsift service.
type Config struct {
	Server          ServerConfig   `toml:"server"`
	Storage         storage.Config `toml:"storage"`
	Scoring         scoring.Config `toml:"scoring"`
	API             APIConfig      `toml:"api"`
	ShutdownTimeout string         `toml:"shutdown_timeout"`
	Version         string         `toml:"version"`
}

// Env returns the LOGSIFT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLogsiftEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Storage.Merge(&overlay.Storage)
	c.Scoring.Merge(&overlay.Scoring)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Scoring.Finalize(scoringEnv); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLogsiftShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLogsiftVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLogsiftEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
