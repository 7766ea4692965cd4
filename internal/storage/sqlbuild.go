package storage

import (
	"fmt"
	"strings"
)

// Placeholder renders the i-th (1-based) parameter marker for a backend:
// "$1" for Postgres, "?" for SQLite.
type Placeholder func(i int) string

// InsertSQL builds the parameterized single-row insert statement used by the
// row-insert load strategy, including the conflict clause. Both supported
// backends share the ON CONFLICT syntax, so only the placeholder style
// varies.
func InsertSQL(table string, columns []string, conflict Conflict, ph Placeholder) string {
	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = ph(i + 1)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(marks, ", "))

	if conflict.Key != "" {
		if len(conflict.Update) == 0 {
			fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", conflict.Key)
		} else {
			sets := make([]string, len(conflict.Update))
			for i, c := range conflict.Update {
				sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
			}
			fmt.Fprintf(&b, " ON CONFLICT (%s) DO UPDATE SET %s", conflict.Key, strings.Join(sets, ", "))
		}
	}
	return b.String()
}
