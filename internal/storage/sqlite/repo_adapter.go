package sqlite

import (
	"context"

	"playetl/internal/storage"
)

// init registers the "sqlite" backend with the storage factory.
func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}
