// Package builtin contains the reusable record transformers of the pipeline.
//
// Clean is the preparation step every table load goes through: it enforces a
// primary key, collapses duplicates, and discards rows carrying no data at
// all. It runs in-memory on a single batch; the database's own PK/UNIQUE
// constraints remain the backstop for anything that slips past.
package builtin

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"playetl/pkg/records"
)

// Clean drops rows missing the primary key, de-duplicates on that key keeping
// the first occurrence in input order, and drops rows where every field is
// nil.
//
// When PrimaryKey is empty only the all-nil filter applies. Clean is pure
// with respect to record contents and idempotent: applying it to an already
// cleaned batch returns an equal batch.
type Clean struct {
	// PrimaryKey names the field that identifies a row. Rows with a nil or
	// missing value on it are dropped before de-duplication.
	PrimaryKey string
}

// Apply executes the cleaning pass. Keep-first wins on duplicates: later
// occurrences of an already seen key are discarded, so re-running the
// pipeline over overlapping inputs converges on the same surviving rows.
func (c Clean) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, 0, len(in))
	seen := make(map[uint64]struct{}, len(in))

	for _, r := range in {
		if r.AllNil() {
			continue
		}
		if c.PrimaryKey != "" {
			v, ok := r[c.PrimaryKey]
			if !ok || v == nil {
				continue
			}
			h := keyHash(v)
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// keyHash folds a primary key value into a 64-bit identity. Values that print
// identically dedupe identically, which matches how the key is later stored.
func keyHash(v any) uint64 {
	switch t := v.(type) {
	case string:
		return xxh3.HashString(t)
	default:
		return xxh3.HashString(fmt.Sprint(t))
	}
}
