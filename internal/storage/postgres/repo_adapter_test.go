package postgres

import (
	"context"
	"testing"

	"playetl/internal/storage"
)

func TestFactoryRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotDSN string
	newRepository = func(ctx context.Context, dsn string) (*Repository, error) {
		gotDSN = dsn
		return &Repository{}, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "postgres", DSN: "postgresql://db/star"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if repo == nil {
		t.Fatal("storage.New returned nil repository")
	}
	if gotDSN != "postgresql://db/star" {
		t.Fatalf("factory received dsn %q", gotDSN)
	}
}
