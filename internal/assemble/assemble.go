// Package assemble builds load-ready fact rows: it filters the raw event
// stream down to playback events and column-joins resolved dimension keys
// back onto them by position.
package assemble

import (
	"fmt"

	"playetl/internal/resolver"
	"playetl/pkg/records"
)

// PageColumn and PlayPage identify a playback event in the raw stream. Only
// rows whose page field equals PlayPage become fact candidates.
const (
	PageColumn = "page"
	PlayPage   = "NextSong"
)

// FilterPlays returns the playback events from the raw event stream,
// preserving relative order. Event order is meaningful downstream and must
// survive assembly unchanged.
func FilterPlays(events []records.Record) []records.Record {
	out := make([]records.Record, 0, len(events))
	for _, e := range events {
		if p := e.String(PageColumn); p != nil && *p == PlayPage {
			out = append(out, e)
		}
	}
	return out
}

// Facts joins keys[i] onto plays[i], returning new records that carry the
// original event fields plus song_id/artist_id. Inputs must be positionally
// aligned (keys as returned by resolver.Resolve over the same slice); a
// length mismatch means the caller broke alignment and is an error, not a
// truncated join. Row order is preserved.
func Facts(plays []records.Record, keys []resolver.Keys) ([]records.Record, error) {
	if len(plays) != len(keys) {
		return nil, fmt.Errorf("assemble: %d plays but %d key pairs", len(plays), len(keys))
	}
	out := make([]records.Record, len(plays))
	for i, p := range plays {
		joined := make(records.Record, len(p)+2)
		for k, v := range p {
			joined[k] = v
		}
		joined["song_id"] = nil
		joined["artist_id"] = nil
		if keys[i].TrackID != nil {
			joined["song_id"] = *keys[i].TrackID
		}
		if keys[i].PerformerID != nil {
			joined["artist_id"] = *keys[i].PerformerID
		}
		out[i] = joined
	}
	return out, nil
}
