package postgres

import "testing"

func TestCopySQL(t *testing.T) {
	t.Parallel()

	got := copySQL("songplays", []string{"start_time", "user_id"})
	want := `COPY "songplays" ("start_time", "user_id") FROM STDIN WITH (FORMAT text, NULL 'Unknown')`
	if got != want {
		t.Fatalf("copySQL = %q, want %q", got, want)
	}
}

func TestDollarMark(t *testing.T) {
	t.Parallel()

	if got := dollarMark(1); got != "$1" {
		t.Fatalf("dollarMark(1) = %q", got)
	}
	if got := dollarMark(12); got != "$12" {
		t.Fatalf("dollarMark(12) = %q", got)
	}
}

func TestPgIdentQuoting(t *testing.T) {
	t.Parallel()

	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("pgIdent = %q", got)
	}
}
