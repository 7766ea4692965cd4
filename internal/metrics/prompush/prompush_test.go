package prompush

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"playetl/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func summaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatal("SummaryVec observer does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write: %v", err)
	}
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("job", ""); err == nil {
		t.Fatal("empty gateway URL should be rejected")
	}

	b, err := NewBackend("", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "playetl" {
		t.Fatalf("jobName = %q, want default", b.jobName)
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("playback_etl", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter(metrics.StageTotalName, 1, metrics.Labels{"stage": "extract", "status": "success"})
	b.IncCounter(metrics.StageTotalName, 1, metrics.Labels{"stage": "extract", "status": "success"})
	b.IncCounter(metrics.RowsTotalName, 42, metrics.Labels{"table": "songplays"})
	b.IncCounter("nonexistent_metric", 9, nil)

	if got := counterValue(t, b.stageCounter.WithLabelValues("extract", "success")); got != 2 {
		t.Fatalf("stage counter = %v, want 2", got)
	}
	if got := counterValue(t, b.rowCounter.WithLabelValues("songplays")); got != 42 {
		t.Fatalf("row counter = %v, want 42", got)
	}
}

func TestObserveDuration(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("playback_etl", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.ObserveDuration(metrics.StageDurationName, 1.5, metrics.Labels{"stage": "load_facts", "status": "success"})
	b.ObserveDuration(metrics.StageDurationName, 0.5, metrics.Labels{"stage": "load_facts", "status": "success"})
	b.ObserveDuration("nonexistent_metric", 3, nil)

	count, sum := summaryCountSum(t, b.stageDuration, "load_facts", "success")
	if count != 2 || sum != 2.0 {
		t.Fatalf("summary count=%d sum=%v, want 2 and 2.0", count, sum)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var pushed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("playback_etl", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotalName, 1, metrics.Labels{"table": "users"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !pushed {
		t.Fatal("gateway did not receive a push")
	}
}
