package config

import (
	"fmt"
	"strings"
)

// IssueSeverity classifies a validation finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the
// config (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error lets an Issue stand in where a single error is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownStorageKinds mirrors the backends wired through storage/all. Unknown
// kinds are warnings for forward compatibility; the factory is the real
// gate.
var knownStorageKinds = map[string]bool{"postgres": true, "sqlite": true}

// Validate statically checks a Run and returns all findings. It does not
// mutate the config; callers decide whether warnings are fatal.
func Validate(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels logs and metrics"})
	}
	if strings.TrimSpace(r.Source.CatalogRoot) == "" {
		issues = append(issues, Issue{SeverityError, "source.catalog_root", "catalog_root must not be empty"})
	}
	if strings.TrimSpace(r.Source.EventsRoot) == "" {
		issues = append(issues, Issue{SeverityError, "source.events_root", "events_root must not be empty"})
	}

	switch {
	case strings.TrimSpace(r.Storage.Kind) == "":
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	case !knownStorageKinds[r.Storage.Kind]:
		issues = append(issues, Issue{SeverityWarning, "storage.kind",
			fmt.Sprintf("unknown storage kind %q; the run will fail unless a backend registered it", r.Storage.Kind)})
	}
	if strings.TrimSpace(r.Storage.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn", "storage.dsn must not be empty"})
	}
	switch r.Storage.FactLoad {
	case "", FactLoadBulk, FactLoadRows:
	default:
		issues = append(issues, Issue{SeverityError, "storage.fact_load",
			fmt.Sprintf("fact_load must be %q or %q, got %q", FactLoadBulk, FactLoadRows, r.Storage.FactLoad)})
	}
	if r.Storage.DurationPrecision < 0 {
		issues = append(issues, Issue{SeverityError, "storage.duration_precision", "duration_precision must not be negative"})
	}

	if r.Metrics.Backend == "pushgateway" && strings.TrimSpace(r.Metrics.GatewayURL) == "" {
		issues = append(issues, Issue{SeverityWarning, "metrics.gateway_url",
			"gateway_url is empty; the default http://localhost:9091 will be used"})
	}

	return issues
}

// HasError reports whether any issue is severity error.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
