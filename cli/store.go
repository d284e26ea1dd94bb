package cli

import (
	"context"
	"fmt"

	"goodreads-insights/config"
	"goodreads-insights/storage"
)

// openStore opens the table store selected by STORE_KIND.
func openStore(ctx context.Context, cfg *config.Config) (storage.BookStore, error) {
	switch cfg.StoreKind {
	case config.StorePostgres:
		return storage.NewPostgresStore(ctx, cfg.DSN())
	case config.StoreSQLite:
		return storage.NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("no table store configured (STORE_KIND=%q)", cfg.StoreKind)
	}
}
