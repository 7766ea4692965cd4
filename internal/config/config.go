// Package config defines the JSON-serializable run configuration for the
// pipeline and a static validator for it.
//
// The model is deliberately small and decoded with the standard library
// only, so a run file can be loaded from disk and passed through the program
// without glue code. Changes should stay additive and backwards-compatible.
//
// Example run file:
//
//	{
//	  "job": "playback_etl",
//	  "source":  { "catalog_root": "data/song_data", "events_root": "data/log_data" },
//	  "storage": { "kind": "postgres", "dsn": "postgresql://...", "fact_load": "bulk" },
//	  "metrics": { "backend": "pushgateway", "gateway_url": "http://localhost:9091" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Fact load strategies.
const (
	FactLoadBulk = "bulk"
	FactLoadRows = "rows"
)

// Run is the top-level configuration for one pipeline execution.
type Run struct {
	// Job names the run for logs and metrics grouping.
	Job string `json:"job"`

	Source  Source  `json:"source"`
	Storage Storage `json:"storage"`
	Metrics Metrics `json:"metrics"`
}

// Source locates the two input directory trees.
type Source struct {
	// CatalogRoot is walked recursively for track/performer catalog files.
	CatalogRoot string `json:"catalog_root"`

	// EventsRoot is walked recursively for playback event log files.
	EventsRoot string `json:"events_root"`
}

// Storage selects and parameterizes the target store.
type Storage struct {
	// Kind is the registered backend ("postgres", "sqlite").
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// FactLoad selects the fact-table strategy: "bulk" (default) streams
	// through the bulk-copy path, "rows" uses per-row inserts.
	FactLoad string `json:"fact_load,omitempty"`

	// DurationPrecision is the decimal precision used when the bulk format
	// serializes float columns (track durations). The epoch timestamps in
	// fact rows are integers and unaffected by it.
	DurationPrecision int `json:"duration_precision,omitempty"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "pushgateway", "none", or empty (disabled).
	Backend string `json:"backend,omitempty"`

	// GatewayURL is the Pushgateway base URL for the pushgateway backend.
	GatewayURL string `json:"gateway_url,omitempty"`
}

// Load decodes a Run from a JSON file. Unknown fields are rejected so typos
// in run files fail loudly instead of silently defaulting.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var r Run
	if err := dec.Decode(&r); err != nil {
		return Run{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return r, nil
}
