// Package records defines the loosely typed row representation shared by the
// extraction and transform stages of the pipeline.
//
// Source files are line-delimited JSON with no declared schema, so rows enter
// the pipeline as plain maps. The accessors on Record give downstream code a
// single place where missing fields, JSON null, and the various numeric
// encodings (json.Number, float64, numeric strings) are reconciled into
// nullable Go values. A nil pointer result always means "absent or null",
// never "zero".
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a single parsed row keyed by source field name. Values are the
// result of JSON decoding with json.Number enabled: string, json.Number,
// bool, nil, or nested containers (which the pipeline never consumes).
type Record map[string]any

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value for key as a *string, or nil when the field is
// absent, null, or the empty string. Non-string scalars are not coerced.
func (r Record) String(key string) *string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Int64 returns the value for key as a *int64, or nil when the field is
// absent, null, or not parseable as an integer. json.Number and numeric
// strings are both accepted; the event files encode user ids either way.
func (r Record) Int64(key string) *int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return &n
		}
		// Numbers like 1.5410e+12 decode as floats; truncate.
		if f, err := t.Float64(); err == nil {
			n := int64(f)
			return &n
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &n
		}
	case int64:
		return &t
	case int:
		n := int64(t)
		return &n
	case float64:
		n := int64(t)
		return &n
	}
	return nil
}

// Float64 returns the value for key as a *float64, or nil when the field is
// absent, null, or not numeric.
func (r Record) Float64(key string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	case float64:
		return &t
	case int64:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	}
	return nil
}

// AllNil reports whether the record carries no usable value: every field is
// nil (or the record is empty).
func (r Record) AllNil() bool {
	for _, v := range r {
		if v != nil {
			return false
		}
	}
	return true
}

// Project returns a new record containing only the listed keys. Keys missing
// from the source are carried as explicit nils so that later null handling
// sees a uniform shape across rows from heterogeneous files.
func (r Record) Project(keys []string) Record {
	out := make(Record, len(keys))
	for _, k := range keys {
		if v, ok := r[k]; ok {
			out[k] = v
		} else {
			out[k] = nil
		}
	}
	return out
}
