// Package json extracts loosely typed records from line-delimited JSON files.
//
// Each input file holds one JSON object per non-blank line (NDJSON). A line
// that fails to parse is reported and skipped; one bad line never aborts the
// file, and one bad file line never aborts the run. Numeric values decode as
// json.Number so integer identifiers and float durations survive untouched
// until a typed accessor decides how to read them.
package json

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"playetl/internal/datasource/file"
	"playetl/pkg/records"
)

// ErrFunc receives per-line parse failures. line is 1-based within path.
type ErrFunc func(path string, line int, err error)

// logErr is the default ErrFunc.
func logErr(path string, line int, err error) {
	log.Printf("extract: %s line %d: skipping invalid JSON: %v", path, line, err)
}

// ExtractDir parses every *.json file found recursively under root and
// returns the records in file order, plus the number of skipped lines.
// Records keep the union of fields seen across files; a field absent from a
// given line is simply absent from that record (typed accessors treat absent
// and null alike).
//
// An empty or file-less root yields an empty slice. I/O errors (unreadable
// root, unreadable file) are fatal; malformed content is not.
func ExtractDir(ctx context.Context, root string, onErr ErrFunc) ([]records.Record, int, error) {
	if onErr == nil {
		onErr = logErr
	}

	paths, err := file.ListJSON(root)
	if err != nil {
		return nil, 0, err
	}

	var (
		out     []records.Record
		skipped int
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, skipped, err
		}
		rc, err := file.NewLocal(p).Open(ctx)
		if err != nil {
			return out, skipped, err
		}
		recs, bad, err := scanLines(rc, p, onErr)
		rc.Close()
		if err != nil {
			return out, skipped, fmt.Errorf("read %s: %w", p, err)
		}
		out = append(out, recs...)
		skipped += bad
	}
	return out, skipped, nil
}

// scanLines reads NDJSON from r, skipping blank and unparsable lines.
func scanLines(r io.Reader, path string, onErr ErrFunc) ([]records.Record, int, error) {
	var (
		out     []records.Record
		skipped int
		line    int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := decodeObject(text)
		if err != nil {
			skipped++
			onErr(path, line, err)
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, skipped, err
	}
	return out, skipped, nil
}

// decodeObject parses a single JSON object with number preservation enabled.
func decodeObject(text string) (records.Record, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return records.Record(m), nil
}
