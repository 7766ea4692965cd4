// Package resolver assigns track/performer surrogate keys to fact candidate
// rows by point lookups against the already-loaded song and artist
// dimensions.
//
// A candidate matches on exact title and performer name equality plus exact
// duration equality. Durations travel the pipeline as float64 from JSON
// decode to dimension load without reformatting, so the stored value and the
// looked-up value are bit-identical and no tolerance is needed.
package resolver

import (
	"context"
	"fmt"

	"playetl/pkg/records"
)

// TrackFinder is the storage capability the resolver needs: a point select
// returning at most one (song_id, artist_id) pair. Both return values are nil
// when nothing matches; a non-nil error means the lookup itself failed and
// the run must abort.
type TrackFinder interface {
	FindTrack(ctx context.Context, title, performer string, duration float64) (trackID, performerID *string, err error)
}

// Keys is one resolved surrogate-key pair. TrackID and PerformerID are
// either both non-nil (a catalog match, both taken from the same row) or
// both nil (no match). A partial pair is a bug.
type Keys struct {
	TrackID     *string
	PerformerID *string
}

// Resolver resolves fact candidates against a TrackFinder.
type Resolver struct {
	finder TrackFinder
}

func New(f TrackFinder) *Resolver { return &Resolver{finder: f} }

// Resolve returns one Keys per candidate, positionally aligned with the
// input so callers can column-join the result back on without reordering.
//
// Candidates missing any of the three lookup fields resolve to the null pair
// without a database round-trip. A missing catalog entry is not an error;
// only lookup failures (connection loss, bad SQL) propagate.
func (r *Resolver) Resolve(ctx context.Context, candidates []records.Record) ([]Keys, error) {
	out := make([]Keys, len(candidates))
	for i, c := range candidates {
		title := c.String("song")
		performer := c.String("artist")
		duration := c.Float64("length")
		if title == nil || performer == nil || duration == nil {
			continue
		}
		trackID, performerID, err := r.finder.FindTrack(ctx, *title, *performer, *duration)
		if err != nil {
			return nil, fmt.Errorf("resolve row %d (%q / %q): %w", i, *title, *performer, err)
		}
		if trackID == nil || performerID == nil {
			// No match (or a half-row from a misbehaving backend): keep the
			// pair null rather than ever emitting a partial reference.
			continue
		}
		out[i] = Keys{TrackID: trackID, PerformerID: performerID}
	}
	return out, nil
}
