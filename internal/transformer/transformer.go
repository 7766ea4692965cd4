// Package transformer defines the record transformation contract used between
// extraction and loading. Concrete transforms live in the builtin subpackage.
package transformer

import "playetl/pkg/records"

// Transformer rewrites or filters a batch of records. Implementations may
// mutate records in place and may return a slice sharing the input's backing
// array; callers must not reuse the input after Apply.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain applies transformers in order.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
