// Package storage contains the storage-agnostic loading contracts and the
// backend factory. Concrete backends (postgres, sqlite) register themselves
// at init time; callers open a Repository through New and stay ignorant of
// the driver underneath.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Conflict declares how an insert behaves when a row collides with an
// existing primary key.
//
// The zero value means no conflict clause: a duplicate key is a constraint
// violation and fails the whole call. With Key set and Update empty the
// duplicate is silently skipped (idempotent re-runs). With Update also set,
// the listed columns are refreshed from the incoming row (upsert).
type Conflict struct {
	Key    string
	Update []string
}

// CopyOptions tunes the bulk wire format for one CopyRows call.
type CopyOptions struct {
	// FloatPrecision is the number of decimal places used when serializing
	// float64 values. Zero (the default) truncates to whole numbers, so calls
	// that carry real-valued columns must set it explicitly.
	FloatPrecision int
}

// Repository is one open connection to the target store, exclusively owned
// by the run that created it. All load methods are scoped to a single
// transaction per call: either every row is durably committed or none is.
type Repository interface {
	// InsertRows executes a parameterized insert once per row and commits
	// once at the end of the call.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any, conflict Conflict) (int64, error)

	// CopyRows streams rows to the table through the backend's bulk path
	// using the tab-separated, Unknown-sentinel wire format.
	CopyRows(ctx context.Context, table string, columns []string, rows [][]any, opts CopyOptions) (int64, error)

	// FindTrack answers the dimension resolver's point lookup: at most one
	// (song_id, artist_id) pair for an exact (title, performer name,
	// duration) match, or (nil, nil, nil) when nothing matches.
	FindTrack(ctx context.Context, title, performer string, duration float64) (trackID, performerID *string, err error)

	// Exec runs an arbitrary statement outside the load paths (test schema
	// setup, maintenance).
	Exec(ctx context.Context, sql string, args ...any) error

	// Close releases the underlying connection. Safe to call once on every
	// exit path.
	Close()
}

// Config selects and parameterizes a backend.
type Config struct {
	Kind string // registered backend name, e.g. "postgres", "sqlite"
	DSN  string
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. Called
// from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository for cfg.Kind. Unknown kinds report the registered
// alternatives; a common cause is a missing blank import of storage/all.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}
