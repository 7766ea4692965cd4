// Package caltime expands millisecond epoch timestamps into the calendar
// dimension: one row per observed timestamp with its wall-clock units.
//
// All units are computed in UTC. The weekday convention is Monday=0 through
// Sunday=6; downstream consumers of the times table depend on it, so it must
// not drift toward Go's native Sunday=0.
package caltime

import (
	"time"

	"playetl/pkg/records"
)

// Column is the event field carrying the epoch-millisecond timestamp.
const Column = "ts"

// Columns is the calendar row layout, in table column order.
var Columns = []string{"start_time", "hour", "day", "week", "month", "year", "weekday"}

// Unit is one decomposed timestamp.
type Unit struct {
	StartTime int64 // original epoch milliseconds, unchanged
	Hour      int   // 0-23
	Day       int   // 1-31
	Week      int   // ISO 8601 week of year
	Month     int   // 1-12
	Year      int
	Weekday   int // Monday=0 .. Sunday=6
}

// At decomposes a single epoch-millisecond timestamp.
func At(ms int64) Unit {
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	return Unit{
		StartTime: ms,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}

// Record returns the unit as a record keyed by Columns.
func (u Unit) Record() records.Record {
	return records.Record{
		"start_time": u.StartTime,
		"hour":       u.Hour,
		"day":        u.Day,
		"week":       u.Week,
		"month":      u.Month,
		"year":       u.Year,
		"weekday":    u.Weekday,
	}
}

// Row returns the unit's values aligned with Columns.
func (u Unit) Row() []any {
	return []any{u.StartTime, u.Hour, u.Day, u.Week, u.Month, u.Year, u.Weekday}
}

// Decompose emits one calendar record per input row carrying a timestamp.
// Rows without a usable timestamp are skipped; duplicate timestamps produce
// duplicate output rows (the cleaner collapses them before load, not here).
func Decompose(rows []records.Record) []records.Record {
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		ts := r.Int64(Column)
		if ts == nil {
			continue
		}
		out = append(out, At(*ts).Record())
	}
	return out
}
