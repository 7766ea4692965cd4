// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the pipeline.
//
// It exposes a narrow Backend interface (counters plus duration
// observations) behind a global, pluggable backend that defaults to a
// no-op implementation, so instrumentation is always safe to call even
// when no real backend is configured. Concrete metric systems live in
// subpackages, mirroring the storage abstraction used elsewhere in the
// project.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names shared between the recording helpers and the backends.
const (
	StageTotalName    = "pipeline_stage_total"
	StageDurationName = "pipeline_stage_duration_seconds"
	RowsTotalName     = "pipeline_rows_total"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage records one pipeline stage execution: a count partitioned by
// outcome plus the stage duration.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter(StageTotalName, 1, lbls)
	backend.ObserveDuration(StageDurationName, d.Seconds(), lbls)
}

// RecordRows increments the row counter for a target table. Typical tables
// are the dimension and fact tables plus the pseudo-tables "events" and
// "catalog" for extracted input rows.
func RecordRows(job, table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotalName, float64(delta), Labels{
		"job":   job,
		"table": table,
	})
}
