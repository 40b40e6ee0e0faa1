// Package backend selects and opens the storage backend named by
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"dime/internal/config"
	"dime/internal/storage"
)

// Open returns the store selected by cfg.DataBackend. Migrations run as a
// side effect for sqlite and postgres. The caller owns Close.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		slog.InfoContext(ctx, "Opened sqlite backend", "path", cfg.SQLiteDBPath)
		return store, nil

	case "postgres":
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		slog.InfoContext(ctx, "Opened postgres backend")
		return store, nil

	case "memory":
		slog.InfoContext(ctx, "Opened in-memory backend, data will not survive restarts")
		return storage.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
