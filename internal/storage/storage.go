// Package storage opens the configured backend.
package storage

import (
	"context"
	"fmt"

	"github.com/tinoosan/budget/internal/config"
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/report"
	"github.com/tinoosan/budget/internal/service/transaction"
	"github.com/tinoosan/budget/internal/storage/memory"
	pgstore "github.com/tinoosan/budget/internal/storage/postgres"
	sqlitestore "github.com/tinoosan/budget/internal/storage/sqlite"
)

// Backend is everything the services read and write.
type Backend interface {
	account.Repo
	account.Writer
	budget.Repo
	budget.Writer
	transaction.Repo
	transaction.Writer
	report.Repo
}

var (
	_ Backend = (*memory.Store)(nil)
	_ Backend = (*pgstore.Store)(nil)
	_ Backend = (*sqlitestore.Store)(nil)
)

// Open returns the backend named by cfg, with migrations applied for the SQL
// backends. The close func is never nil.
func Open(ctx context.Context, cfg *config.Config) (Backend, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if err := pgstore.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return pg, pg.Close, nil
	case config.BackendSQLite:
		lite, err := sqlitestore.Open(ctx, cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return lite, func() { _ = lite.Close() }, nil
	case config.BackendMemory, "":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Migrate applies pending migrations without opening a store. The memory
// backend has nothing to migrate.
func Migrate(cfg *config.Config) error {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return pgstore.Migrate(cfg.DatabaseURL)
	case config.BackendSQLite:
		lite, err := sqlitestore.Open(context.Background(), cfg.SQLiteDBPath)
		if err != nil {
			return err
		}
		return lite.Close()
	default:
		return nil
	}
}
