// Package sqlite implements storage.Repository on database/sql with the
// modernc.org/sqlite driver. It exists for local runs and tests that need a
// real relational store without a server.
//
// SQLite has no COPY protocol, so the bulk strategy degrades to a batched
// transactional insert with the same all-or-nothing semantics; the bulk wire
// format itself is exercised by the Postgres backend and its own tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"playetl/internal/storage"
)

const trackSelect = `
SELECT s.song_id, s.artist_id
FROM songs s
JOIN artists a ON s.artist_id = a.artist_id
WHERE s.title = ? AND a.name = ? AND s.duration = ?`

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens dsn (a file path or file: URL) and enables foreign key
// enforcement, which SQLite leaves off by default.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: dsn must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// One connection: SQLite pragmas are per-connection and concurrent
	// writers would only contend on the file lock anyway.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	return &Repository{db: db}, nil
}

// InsertRows executes the parameterized insert once per row inside one
// transaction, committing at the end of the call.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any, conflict storage.Conflict) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmtSQL := storage.InsertSQL(table, columns, conflict, questionMark)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("sqlite: row %d has %d fields, want %d", i, len(row), len(columns))
		}
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert into %s row %d: %w", table, i, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit %s: %w", table, err)
	}
	return inserted, nil
}

// CopyRows provides the bulk contract as a single-transaction batched
// insert. Rows still validate against EncodeBulk first so a stream the
// Postgres path would reject is rejected here too.
func (r *Repository) CopyRows(ctx context.Context, table string, columns []string, rows [][]any, opts storage.CopyOptions) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if _, err := storage.EncodeBulk(columns, rows, opts); err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	return r.InsertRows(ctx, table, columns, rows, storage.Conflict{})
}

// FindTrack mirrors the Postgres point lookup with first-match semantics.
func (r *Repository) FindTrack(ctx context.Context, title, performer string, duration float64) (*string, *string, error) {
	qrows, err := r.db.QueryContext(ctx, trackSelect, title, performer, duration)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: track lookup: %w", err)
	}
	defer qrows.Close()

	var trackID, performerID *string
	matches := 0
	for qrows.Next() {
		matches++
		if matches == 1 {
			var t, p string
			if err := qrows.Scan(&t, &p); err != nil {
				return nil, nil, fmt.Errorf("sqlite: track lookup scan: %w", err)
			}
			trackID, performerID = &t, &p
		}
	}
	if err := qrows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("sqlite: track lookup: %w", err)
	}
	if matches > 1 {
		log.Printf("resolver: %d catalog rows match (%q, %q, %v); keeping the first", matches, title, performer, duration)
	}
	return trackID, performerID, nil
}

// Exec runs a single statement (test schema setup, pragmas).
func (r *Repository) Exec(ctx context.Context, sqlText string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() { _ = r.db.Close() }

func questionMark(int) string { return "?" }

var _ storage.Repository = (*Repository)(nil)
