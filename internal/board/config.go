package board

import (
	"fmt"
	"os"
	"time"
)

// Config holds board API connection parameters.
type Config struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Project string `toml:"project"`
	Timeout string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	Token   string
	Project string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Project != "" {
		c.Project = overlay.Project
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://app.asana.com/api/1.0"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Project != "" {
		if v := os.Getenv(env.Project); v != "" {
			c.Project = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if c.Project == "" {
		return fmt.Errorf("project required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
