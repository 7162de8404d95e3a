package scheduler

import (
	"fmt"
	"os"
	"time"
)

// Config holds watcher scheduling parameters.
type Config struct {
	Interval string `toml:"interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Interval string
}

// IntervalDuration returns Interval as a time.Duration.
func (c *Config) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
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
	if overlay.Interval != "" {
		c.Interval = overlay.Interval
	}
}

func (c *Config) loadDefaults() {
	if c.Interval == "" {
		c.Interval = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Interval != "" {
		if v := os.Getenv(env.Interval); v != "" {
			c.Interval = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}
