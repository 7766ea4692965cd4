// Package postgres implements the storage.Repository contract on top of pgx
// v5. The row-insert strategy runs parameterized inserts inside one
// transaction; the bulk strategy streams the tab-separated wire format
// through the text COPY protocol with the Unknown null sentinel.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"playetl/internal/storage"
)

// trackSelect is the dimension resolver's point lookup. Exact equality on
// all three terms; duration round-trips through the same float64 the catalog
// load wrote, so no tolerance is applied.
const trackSelect = `
SELECT s.song_id, s.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = $1 AND a.name = $2 AND s.duration = $3`

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository connects a pool for dsn. The caller owns the returned
// Repository and must Close it on every exit path.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// InsertRows executes the parameterized insert once per row inside a single
// transaction. Any constraint violation rolls the whole call back; nothing
// inserted by the call survives a mid-batch failure.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any, conflict storage.Conflict) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt := storage.InsertSQL(table, columns, conflict, dollarMark)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("postgres: row %d has %d fields, want %d", i, len(row), len(columns))
		}
		tag, err := tx.Exec(ctx, stmt, row...)
		if err != nil {
			return 0, fmt.Errorf("postgres: insert into %s row %d: %w", table, i, pgDetail(err))
		}
		inserted += tag.RowsAffected()
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit %s: %w", table, err)
	}
	return inserted, nil
}

// CopyRows streams rows through COPY FROM STDIN in text format, naming the
// target columns explicitly and declaring the Unknown sentinel as NULL. One
// transaction, one commit; the server rejects the whole stream on any
// constraint violation.
func (r *Repository) CopyRows(ctx context.Context, table string, columns []string, rows [][]any, opts storage.CopyOptions) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	buf, err := storage.EncodeBulk(columns, rows, opts)
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: acquire: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := conn.Conn().PgConn().CopyFrom(ctx, buf, copySQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("postgres: copy into %s: %w", table, pgDetail(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// FindTrack returns the surrogate keys of the catalog entry matching the
// title/performer/duration triple, or a nil pair when nothing matches. The
// dimensions are deduplicated at load time, so a second match should not
// exist; if one does, the first row wins and the collision is logged.
func (r *Repository) FindTrack(ctx context.Context, title, performer string, duration float64) (*string, *string, error) {
	qrows, err := r.pool.Query(ctx, trackSelect, title, performer, duration)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: track lookup: %w", err)
	}
	defer qrows.Close()

	var trackID, performerID *string
	matches := 0
	for qrows.Next() {
		matches++
		if matches == 1 {
			var t, p string
			if err := qrows.Scan(&t, &p); err != nil {
				return nil, nil, fmt.Errorf("postgres: track lookup scan: %w", err)
			}
			trackID, performerID = &t, &p
		}
	}
	if err := qrows.Err(); err != nil {
		return nil, nil, fmt.Errorf("postgres: track lookup: %w", err)
	}
	if matches > 1 {
		log.Printf("resolver: %d catalog rows match (%q, %q, %v); keeping the first", matches, title, performer, duration)
	}
	return trackID, performerID, nil
}

// Exec runs a single statement outside the load paths.
func (r *Repository) Exec(ctx context.Context, sql string, args ...any) error {
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", pgDetail(err))
	}
	return nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

func dollarMark(i int) string { return "$" + strconv.Itoa(i) }

// copySQL builds the COPY statement for the bulk path. Identifiers are
// quoted; the format options mirror EncodeBulk exactly.
func copySQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgIdent(c)
	}
	return fmt.Sprintf(
		"COPY %s (%s) FROM STDIN WITH (FORMAT text, NULL '%s')",
		pgIdent(table), strings.Join(quoted, ", "), storage.NullSentinel,
	)
}

// pgIdent quotes a single identifier segment.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgDetail surfaces the server-side detail of a pgconn error (constraint
// name, offending key) that the generic error string omits.
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%s: %s (%s)", pgErr.Message, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// ensure the interface stays satisfied.
var _ storage.Repository = (*Repository)(nil)
