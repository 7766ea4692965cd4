package storage

import (
	"strconv"
	"strings"
	"testing"
)

func TestEncodeBulkBasics(t *testing.T) {
	t.Parallel()

	cols := []string{"start_time", "user_id", "level", "song_id"}
	rows := [][]any{
		{int64(1591017855401), int64(39), "paid", "SONHOTT12A8C13493C"},
		{int64(1591017855402), int64(40), nil, nil},
	}
	buf, err := EncodeBulk(cols, rows, CopyOptions{})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}
	want := "1591017855401\t39\tpaid\tSONHOTT12A8C13493C\n" +
		"1591017855402\t40\tUnknown\tUnknown\n"
	if got := buf.String(); got != want {
		t.Fatalf("stream = %q, want %q", got, want)
	}
}

func TestEncodeBulkFloatPrecision(t *testing.T) {
	t.Parallel()

	rows := [][]any{{233.40363}}

	zero, err := EncodeBulk([]string{"duration"}, rows, CopyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(zero.String()); got != "233" {
		t.Fatalf("precision 0: %q, want 233", got)
	}

	two, err := EncodeBulk([]string{"duration"}, rows, CopyOptions{FloatPrecision: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(two.String()); got != "233.40" {
		t.Fatalf("precision 2: %q, want 233.40", got)
	}
}

func TestEncodeBulkEscapesStructuralCharacters(t *testing.T) {
	t.Parallel()

	rows := [][]any{{"Mozilla/5.0\t(Windows)\nback\\slash"}}
	buf, err := EncodeBulk([]string{"user_agent"}, rows, CopyOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	want := `Mozilla/5.0\t(Windows)\nback\\slash` + "\n"
	if got != want {
		t.Fatalf("escaped = %q, want %q", got, want)
	}
	// Exactly one record line regardless of embedded newlines.
	if n := strings.Count(got, "\n"); n != 1 {
		t.Fatalf("row split across lines: %q", got)
	}
}

func TestEncodeBulkRaggedRow(t *testing.T) {
	t.Parallel()

	if _, err := EncodeBulk([]string{"a", "b"}, [][]any{{1}}, CopyOptions{}); err == nil {
		t.Fatal("want error for ragged row")
	}
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()

	pgMark := func(i int) string { return "$" + strconv.Itoa(i) }
	qMark := func(int) string { return "?" }

	cases := []struct {
		name     string
		conflict Conflict
		ph       Placeholder
		want     string
	}{
		{
			name: "plain_insert",
			ph:   pgMark,
			want: "INSERT INTO songs (song_id, title) VALUES ($1, $2)",
		},
		{
			name:     "do_nothing",
			conflict: Conflict{Key: "song_id"},
			ph:       pgMark,
			want:     "INSERT INTO songs (song_id, title) VALUES ($1, $2) ON CONFLICT (song_id) DO NOTHING",
		},
		{
			name:     "upsert",
			conflict: Conflict{Key: "song_id", Update: []string{"title"}},
			ph:       qMark,
			want:     "INSERT INTO songs (song_id, title) VALUES (?, ?) ON CONFLICT (song_id) DO UPDATE SET title = EXCLUDED.title",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InsertSQL("songs", []string{"song_id", "title"}, tc.conflict, tc.ph)
			if got != tc.want {
				t.Fatalf("InsertSQL = %q, want %q", got, tc.want)
			}
		})
	}
}
