package repository

import (
	"context"
	"fmt"
	"log/slog"

	"retail-ledger/internal/config"
	"retail-ledger/internal/domain"
)

// Backend is a snapshot repository holding resources that Close releases.
type Backend interface {
	domain.SnapshotRepository
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*JSONRepository)(nil)
	_ Backend = (*Store)(nil)
)

// Open returns the snapshot backend selected by cfg.DataBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case config.BackendJSON:
		logger.Info("Using JSON snapshot backend", "path", cfg.DataFile)
		return NewJSONRepository(cfg.DataFile, logger), nil
	case config.BackendPostgres:
		logger.Info("Using PostgreSQL snapshot backend", "host", cfg.DBHost, "database", cfg.DBName)
		store, err := OpenPostgres(ctx, cfg.GetDBConnectionString(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres backend: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
