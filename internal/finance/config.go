package finance

import (
	"fmt"
	"os"
	"time"
)

// MarketsConfig holds quote API parameters.
type MarketsConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// MarketsEnv maps config fields to environment variable names for override injection.
type MarketsEnv struct {
	BaseURL string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *MarketsConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MarketsConfig) Finalize(env *MarketsEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MarketsConfig) Merge(overlay *MarketsConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *MarketsConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://query1.finance.yahoo.com/v7/finance"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *MarketsConfig) loadEnv(env *MarketsEnv) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *MarketsConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
