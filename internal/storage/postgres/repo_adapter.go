package postgres

import (
	"context"

	"playetl/internal/storage"
)

// newRepository is a seam for tests; production leaves it at NewRepository.
var newRepository = NewRepository

// init registers the "postgres" backend with the storage factory so callers
// can stay backend-agnostic (typically via a blank import of storage/all).
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg.DSN)
	})
}
