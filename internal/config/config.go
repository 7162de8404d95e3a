package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/internal/finance"
	"github.com/JaimeStill/relay/internal/registry"
	"github.com/JaimeStill/relay/internal/scheduler"
	"github.com/JaimeStill/relay/pkg/database"
	"github.com/JaimeStill/relay/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRelayEnv             = "RELAY_ENV"
	EnvRelayShutdownTimeout = "RELAY_SHUTDOWN_TIMEOUT"
	EnvRelayVersion         = "RELAY_VERSION"
)

var databaseEnv = &database.Env{
	Enabled:         "RELAY_DB_ENABLED",
	Host:            "RELAY_DB_HOST",
	Port:            "RELAY_DB_PORT",
	Name:            "RELAY_DB_NAME",
	User:            "RELAY_DB_USER",
	Password:        "RELAY_DB_PASSWORD",
	SSLMode:         "RELAY_DB_SSL_MODE",
	MaxOpenConns:    "RELAY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "RELAY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "RELAY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "RELAY_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "RELAY_STORAGE_ENABLED",
	ContainerName:    "RELAY_STORAGE_CONTAINER_NAME",
	ConnectionString: "RELAY_STORAGE_CONNECTION_STRING",
}

var boardEnv = &board.Env{
	BaseURL: "RELAY_BOARD_BASE_URL",
	Token:   "RELAY_BOARD_TOKEN",
	Project: "RELAY_BOARD_PROJECT",
	Timeout: "RELAY_BOARD_TIMEOUT",
}

var registryEnv = &registry.Env{
	BaseURL: "RELAY_REGISTRY_BASE_URL",
	Timeout: "RELAY_REGISTRY_TIMEOUT",
}

var engineEnv = &engine.Env{
	IntakeSection: "RELAY_INTAKE_SECTION",
	ScratchDir:    "RELAY_SCRATCH_DIR",
}

var schedulerEnv = &scheduler.Env{
	Interval: "RELAY_SCHEDULER_INTERVAL",
}

var marketsEnv = &finance.MarketsEnv{
	BaseURL: "RELAY_MARKETS_BASE_URL",
	Timeout: "RELAY_MARKETS_TIMEOUT",
}

// Config is the root configuration for the Relay service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Storage         storage.Config        `toml:"storage"`
	Board           board.Config          `toml:"board"`
	Registry        registry.Config       `toml:"registry"`
	Engine          engine.Config         `toml:"engine"`
	Scheduler       scheduler.Config      `toml:"scheduler"`
	Markets         finance.MarketsConfig `toml:"markets"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the RELAY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRelayEnv); env != "" {
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
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Board.Merge(&overlay.Board)
	c.Registry.Merge(&overlay.Registry)
	c.Engine.Merge(&overlay.Engine)
	c.Scheduler.Merge(&overlay.Scheduler)
	c.Markets.Merge(&overlay.Markets)
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
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Board.Finalize(boardEnv); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if err := c.Registry.Finalize(registryEnv); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if err := c.Engine.Finalize(engineEnv); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Scheduler.Finalize(schedulerEnv); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err := c.Markets.Finalize(marketsEnv); err != nil {
		return fmt.Errorf("markets: %w", err)
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
	if v := os.Getenv(EnvRelayShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRelayVersion); v != "" {
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
	if env := os.Getenv(EnvRelayEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
