package assemble

import (
	"encoding/json"
	"testing"

	"playetl/internal/resolver"
	"playetl/pkg/records"
)

func TestFilterPlays(t *testing.T) {
	t.Parallel()

	events := []records.Record{
		{"page": "Home", "ts": json.Number("1")},
		{"page": "NextSong", "ts": json.Number("2")},
		{"ts": json.Number("3")}, // no page field
		{"page": "NextSong", "ts": json.Number("4")},
		{"page": "Logout"},
	}
	got := FilterPlays(events)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if ts := got[0].Int64("ts"); ts == nil || *ts != 2 {
		t.Fatalf("first play ts = %v", ts)
	}
	if ts := got[1].Int64("ts"); ts == nil || *ts != 4 {
		t.Fatalf("second play ts = %v", ts)
	}
}

func TestFactsPreservesOrderAndJoins(t *testing.T) {
	t.Parallel()

	plays := []records.Record{
		{"ts": json.Number("10"), "song": "a"},
		{"ts": json.Number("20"), "song": "b"},
		{"ts": json.Number("30"), "song": "c"},
	}
	tid, pid := "S1", "A1"
	keys := []resolver.Keys{
		{},
		{TrackID: &tid, PerformerID: &pid},
		{},
	}
	got, err := Facts(plays, keys)
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	for i, want := range []int64{10, 20, 30} {
		ts := got[i].Int64("ts")
		if ts == nil || *ts != want {
			t.Fatalf("row %d ts = %v, want %d (order not preserved)", i, ts, want)
		}
	}
	if got[0]["song_id"] != nil || got[0]["artist_id"] != nil {
		t.Fatalf("unresolved row should carry nil keys: %#v", got[0])
	}
	if got[1]["song_id"] != "S1" || got[1]["artist_id"] != "A1" {
		t.Fatalf("resolved row keys = %v / %v", got[1]["song_id"], got[1]["artist_id"])
	}
}

func TestFactsLengthMismatch(t *testing.T) {
	t.Parallel()

	if _, err := Facts([]records.Record{{}}, nil); err == nil {
		t.Fatal("want alignment error")
	}
}

func TestFactsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	play := records.Record{"ts": json.Number("1")}
	tid, pid := "S1", "A1"
	if _, err := Facts([]records.Record{play}, []resolver.Keys{{TrackID: &tid, PerformerID: &pid}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := play["song_id"]; ok {
		t.Fatal("input record was mutated")
	}
}
