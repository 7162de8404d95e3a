package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds workflow engine parameters.
type Config struct {
	IntakeSection string `toml:"intake_section"`
	ScratchDir    string `toml:"scratch_dir"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	IntakeSection string
	ScratchDir    string
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
	if overlay.IntakeSection != "" {
		c.IntakeSection = overlay.IntakeSection
	}
	if overlay.ScratchDir != "" {
		c.ScratchDir = overlay.ScratchDir
	}
}

func (c *Config) loadDefaults() {
	if c.IntakeSection == "" {
		c.IntakeSection = "QA"
	}
	if c.ScratchDir == "" {
		c.ScratchDir = filepath.Join(os.TempDir(), "relay")
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.IntakeSection != "" {
		if v := os.Getenv(env.IntakeSection); v != "" {
			c.IntakeSection = v
		}
	}
	if env.ScratchDir != "" {
		if v := os.Getenv(env.ScratchDir); v != "" {
			c.ScratchDir = v
		}
	}
}

func (c *Config) validate() error {
	if c.IntakeSection == "" {
		return fmt.Errorf("intake_section required")
	}
	if c.ScratchDir == "" {
		return fmt.Errorf("scratch_dir required")
	}
	return nil
}
