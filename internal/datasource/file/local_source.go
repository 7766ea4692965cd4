package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"playetl/internal/datasource"
)

// Local is a filesystem data source bound to a single path.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local source for path. The value is safe for concurrent
// use as long as the underlying file is valid for concurrent reads.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. If ctx is already canceled the
// context error is returned without touching the filesystem. Filesystem
// errors are wrapped with the path while staying visible to errors.Is (e.g.
// os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
