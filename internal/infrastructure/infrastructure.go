// Package infrastructure provides core service initialization for application startup.
// It assembles the logger, the prediction client, and the history store along
// with whichever backing system the configured history backend requires.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/history"
	"github.com/JaimeStill/veritas/internal/prediction"
	"github.com/JaimeStill/veritas/pkg/cache"
	"github.com/JaimeStill/veritas/pkg/database"
	"github.com/JaimeStill/veritas/pkg/lifecycle"
	"github.com/JaimeStill/veritas/pkg/logging"
	"github.com/JaimeStill/veritas/pkg/storage"
)

// Infrastructure holds the core systems shared by every entry point.
// Database, Storage, and Cache are nil unless the history backend uses them.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Client    *prediction.Client
	History   *history.Store
	Database  database.System
	Storage   storage.System
	Cache     cache.System
}

// New creates an Infrastructure from the application configuration, logging
// to w (stderr when nil). It initializes all systems but does not start them;
// call Start separately.
func New(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging, w)

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Client:    prediction.New(&cfg.Client, logger),
	}

	backend, err := infra.backend(cfg)
	if err != nil {
		return nil, err
	}
	infra.History = history.NewStore(backend, cfg.History.Key, logger)

	return infra, nil
}

func (i *Infrastructure) backend(cfg *config.Config) (history.Backend, error) {
	switch cfg.History.Backend {
	case config.BackendMemory:
		return history.NewMemoryBackend(), nil
	case config.BackendPostgres:
		db, err := database.New(&cfg.Database, i.Logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		i.Database = db
		return history.NewSQLBackend(db.Connection()), nil
	case config.BackendBlob:
		store, err := storage.New(&cfg.Storage, i.Logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		i.Storage = store
		return history.NewBlobBackend(store), nil
	case config.BackendValkey:
		c, err := cache.New(&cfg.Cache, i.Logger)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		i.Cache = c
		return history.NewValkeyBackend(c.Client(), cfg.History.ValkeyPrefix), nil
	case config.BackendFile, "":
		return history.NewFileBackend(cfg.History.Dir), nil
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
}

// Start registers the configured backing systems with the lifecycle
// coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	return nil
}
