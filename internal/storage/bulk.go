package storage

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// NullSentinel is the string that represents NULL in the bulk wire format.
// It matches the null marker the bulk-copy path declares to the server, so
// the two must change together or not at all.
const NullSentinel = "Unknown"

// EncodeBulk serializes rows into the bulk wire format: one line per row,
// fields tab-separated, no header, nil rendered as NullSentinel, floats
// formatted to opts.FloatPrecision decimal places. Tab, newline, carriage
// return, and backslash inside string values are backslash-escaped so a free
// text field (a user agent, say) cannot split a row.
//
// Every row must have len(columns) fields; a ragged row is an error before
// anything is written.
func EncodeBulk(columns []string, rows [][]any, opts CopyOptions) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("bulk encode: row %d has %d fields, want %d", i, len(row), len(columns))
		}
		for j, v := range row {
			if j > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(encodeField(v, opts.FloatPrecision))
		}
		buf.WriteByte('\n')
	}
	return &buf, nil
}

func encodeField(v any, floatPrec int) string {
	switch t := v.(type) {
	case nil:
		return NullSentinel
	case string:
		return escapeBulk(t)
	case float64:
		return strconv.FormatFloat(t, 'f', floatPrec, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', floatPrec, 32)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return escapeBulk(fmt.Sprint(t))
	}
}

// escapeBulk escapes the characters that are structural in the tab-separated
// stream, following the text COPY encoding rules.
func escapeBulk(s string) string {
	if !strings.ContainsAny(s, "\\\t\n\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
