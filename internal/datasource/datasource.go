package datasource

import (
	"context"
	"io"
)

// Source is anything that can be opened for reading, abstracting where raw
// bytes come from so parsers stay ignorant of the filesystem.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
