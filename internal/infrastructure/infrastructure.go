// Package infrastructure provides core service initialization for application startup.
// It assembles the common dependencies (logging, report persistence, form archiving)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/relay/internal/config"
	"github.com/JaimeStill/relay/pkg/database"
	"github.com/JaimeStill/relay/pkg/lifecycle"
	"github.com/JaimeStill/relay/pkg/storage"
)

// Infrastructure holds the core systems required by the domain modules.
// Database and Archive are nil when their configuration is disabled; the
// service runs fully in-memory without them.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Archive   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all enabled systems but does not start them; call Start
// separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
	}

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	if cfg.Storage.Enabled {
		archive, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("archive init failed: %w", err)
		}
		infra.Archive = archive
	}

	return infra, nil
}

// Start registers the enabled infrastructure systems with the lifecycle
// coordinator for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Archive != nil {
		if err := i.Archive.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("archive start failed: %w", err)
		}
	}
	return nil
}
