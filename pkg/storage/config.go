package storage

import (
	"fmt"
	"os"
	"strconv"
)

// MaxListCap bounds the number of blobs a single List call may return.
const MaxListCap int32 = 5000

// Config holds Azure Blob Storage connection parameters and container names.
type Config struct {
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	LogsContainer    string `toml:"logs_container"`
	ResultsContainer string `toml:"results_container"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ConnectionString string
	ServiceURL       string
	LogsContainer    string
	ResultsContainer string
	MaxListSize      string
}

// Containers returns the container names the system manages.
func (c *Config) Containers() []string {
	return []string{c.LogsContainer, c.ResultsContainer}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.ServiceURL != "" {
		c.ServiceURL = overlay.ServiceURL
	}
	if overlay.LogsContainer != "" {
		c.LogsContainer = overlay.LogsContainer
	}
	if overlay.ResultsContainer != "" {
		c.ResultsContainer = overlay.ResultsContainer
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadDefaults() {
	if c.LogsContainer == "" {
		c.LogsContainer = "logs"
	}
	if c.ResultsContainer == "" {
		c.ResultsContainer = "results"
	}
	if c.MaxListSize == 0 {
		c.MaxListSize = 50
	}
	if c.MaxListSize > MaxListCap {
		c.MaxListSize = MaxListCap
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.ServiceURL != "" {
		if v := os.Getenv(env.ServiceURL); v != "" {
			c.ServiceURL = v
		}
	}
	if env.LogsContainer != "" {
		if v := os.Getenv(env.LogsContainer); v != "" {
			c.LogsContainer = v
		}
	}
	if env.ResultsContainer != "" {
		if v := os.Getenv(env.ResultsContainer); v != "" {
			c.ResultsContainer = v
		}
	}
	if env.MaxListSize != "" {
		if v := os.Getenv(env.MaxListSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxListSize = min(int32(n), MaxListCap)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ConnectionString == "" && c.ServiceURL == "" {
		return fmt.Errorf("connection_string or service_url required")
	}
	if c.LogsContainer == "" {
		return fmt.Errorf("logs_container required")
	}
	if c.ResultsContainer == "" {
		return fmt.Errorf("results_container required")
	}
	if c.LogsContainer == c.ResultsContainer {
		return fmt.Errorf("logs_container and results_container must differ")
	}
	return nil
}

// ParseMaxResults parses a list size parameter, returning fallback for an
// empty value and clamping results to MaxListCap.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max results: %q", s)
	}

	return min(int32(n), MaxListCap), nil
}
