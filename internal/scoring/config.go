package scoring

import (
	"fmt"
	"os"
	"strconv"
)

// Model names accepted by Config.
const (
	ModelDummy     = "dummy"
	ModelThreshold = "threshold"
)

// Config selects and parameterizes the scorer.
type Config struct {
	Model           string  `toml:"model"`
	ThresholdColumn string  `toml:"threshold_column"`
	ThresholdCutoff float64 `toml:"threshold_cutoff"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Model           string
	ThresholdColumn string
	ThresholdCutoff string
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
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.ThresholdColumn != "" {
		c.ThresholdColumn = overlay.ThresholdColumn
	}
	if overlay.ThresholdCutoff != 0 {
		c.ThresholdCutoff = overlay.ThresholdCutoff
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = ModelDummy
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.ThresholdColumn != "" {
		if v := os.Getenv(env.ThresholdColumn); v != "" {
			c.ThresholdColumn = v
		}
	}
	if env.ThresholdCutoff != "" {
		if v := os.Getenv(env.ThresholdCutoff); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.ThresholdCutoff = f
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Model {
	case ModelDummy:
	case ModelThreshold:
		if c.ThresholdColumn == "" {
			return fmt.Errorf("threshold_column required for threshold model")
		}
	default:
		return fmt.Errorf("unknown scoring model: %q", c.Model)
	}
	return nil
}

// New creates the scorer selected by the configuration.
func New(cfg *Config) (Scorer, error) {
	switch cfg.Model {
	case ModelDummy:
		return Dummy{}, nil
	case ModelThreshold:
		return Threshold{
			Column: cfg.ThresholdColumn,
			Cutoff: cfg.ThresholdCutoff,
		}, nil
	default:
		return nil, fmt.Errorf("unknown scoring model: %q", cfg.Model)
	}
}
