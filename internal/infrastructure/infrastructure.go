// Package infrastructure wires shared subsystems behind a single startup path.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/vantrel/medscan/internal/config"
	"github.com/vantrel/medscan/pkg/database"
	"github.com/vantrel/medscan/pkg/lifecycle"
	"github.com/vantrel/medscan/pkg/storage"
)

// Infrastructure aggregates the shared subsystems every domain module builds on.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New constructs the shared subsystems from finalized configuration.
// Nothing connects until Start is called.
func New(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers lifecycle hooks for every subsystem and waits for startup
// to complete.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start database: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start storage: %w", err)
	}

	i.Lifecycle.WaitForStartup()
	return nil
}
