package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractDirSkipsMalformedLines(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "events.json",
		`{"page":"NextSong","ts":1591017855401}
this is not json
{"page":"Home","ts":1591017855402}

`)

	var seen []int
	recs, skipped, err := ExtractDir(context.Background(), root, func(_ string, line int, _ error) {
		seen = append(seen, line)
	})
	if err != nil {
		t.Fatalf("ExtractDir: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("onErr lines = %v, want [2]", seen)
	}
	if got := recs[0].String("page"); got == nil || *got != "NextSong" {
		t.Fatalf("first record page = %v", got)
	}
}

func TestExtractDirFieldUnion(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a/songs.json", `{"song_id":"S1","title":"Something Girls"}`)
	writeFile(t, root, "b/songs.json", `{"song_id":"S2","duration":233.4012}`)

	recs, skipped, err := ExtractDir(context.Background(), root, nil)
	if err != nil || skipped != 0 {
		t.Fatalf("ExtractDir: skipped=%d err=%v", skipped, err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// Fields missing on a given line read as nil via the typed accessors.
	if recs[0].Float64("duration") != nil {
		t.Fatal("first record should have no duration")
	}
	if d := recs[1].Float64("duration"); d == nil || *d != 233.4012 {
		t.Fatalf("second record duration = %v", d)
	}
}

func TestExtractDirEmptyRoot(t *testing.T) {
	t.Parallel()

	recs, skipped, err := ExtractDir(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ExtractDir: %v", err)
	}
	if len(recs) != 0 || skipped != 0 {
		t.Fatalf("want empty result, got recs=%d skipped=%d", len(recs), skipped)
	}
}

func TestExtractDirCanceledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "songs.json", `{"song_id":"S1"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := ExtractDir(ctx, root, nil); err == nil {
		t.Fatal("want context error")
	}
}
