package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validRun() Run {
	return Run{
		Job: "playback_etl",
		Source: Source{
			CatalogRoot: "data/song_data",
			EventsRoot:  "data/log_data",
		},
		Storage: Storage{
			Kind:              "postgres",
			DSN:               "postgresql://localhost/star",
			FactLoad:          FactLoadBulk,
			DurationPrecision: 5,
		},
	}
}

func TestValidateAcceptsCompleteRun(t *testing.T) {
	t.Parallel()

	if issues := Validate(validRun()); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateFlagsMissingFields(t *testing.T) {
	t.Parallel()

	issues := Validate(Run{})
	if !HasError(issues) {
		t.Fatal("empty run should have errors")
	}
	paths := map[string]bool{}
	for _, i := range issues {
		paths[i.Path] = true
	}
	for _, want := range []string{"job", "source.catalog_root", "source.events_root", "storage.kind", "storage.dsn"} {
		if !paths[want] {
			t.Fatalf("missing issue for %s in %v", want, issues)
		}
	}
}

func TestValidateFactLoad(t *testing.T) {
	t.Parallel()

	r := validRun()
	r.Storage.FactLoad = "streamed"
	issues := Validate(r)
	if !HasError(issues) {
		t.Fatalf("bad fact_load accepted: %v", issues)
	}

	r.Storage.FactLoad = ""
	if issues := Validate(r); HasError(issues) {
		t.Fatalf("empty fact_load should default, got %v", issues)
	}
}

func TestValidateUnknownStorageKindIsWarning(t *testing.T) {
	t.Parallel()

	r := validRun()
	r.Storage.Kind = "duckdb"
	issues := Validate(r)
	if HasError(issues) {
		t.Fatalf("unknown kind should warn, not error: %v", issues)
	}
	if len(issues) != 1 || issues[0].Severity != SeverityWarning {
		t.Fatalf("issues = %v", issues)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(p, []byte(`{"job":"x","sorce":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil || !strings.Contains(err.Error(), "sorce") {
		t.Fatalf("want unknown-field error, got %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "run.json")
	body := `{
  "job": "playback_etl",
  "source": {"catalog_root": "a", "events_root": "b"},
  "storage": {"kind": "sqlite", "dsn": "star.db", "fact_load": "rows"}
}`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Storage.Kind != "sqlite" || r.Storage.FactLoad != FactLoadRows {
		t.Fatalf("decoded %+v", r)
	}
}
