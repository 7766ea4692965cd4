package schema

import "playetl/pkg/records"

// The entity types below are the typed counterparts of the cleaned record
// projections. Nullable source fields are pointers so that "missing" is a
// checked branch, not a zero value smuggled into the database. Each Row
// method emits values aligned with the table's column order; nil pointers
// become SQL NULLs (or the bulk null sentinel).

// Track is a row of the songs dimension.
type Track struct {
	ID          string
	Title       *string
	PerformerID *string
	Year        *int64
	Duration    *float64
}

// TrackFromRecord builds a Track from a cleaned catalog record. The cleaner
// guarantees song_id is present; other fields may be nil.
func TrackFromRecord(r records.Record) Track {
	return Track{
		ID:          stringOrEmpty(r, "song_id"),
		Title:       r.String("title"),
		PerformerID: r.String("artist_id"),
		Year:        r.Int64("year"),
		Duration:    r.Float64("duration"),
	}
}

func (t Track) Row() []any {
	return []any{t.ID, deref(t.Title), deref(t.PerformerID), deref(t.Year), deref(t.Duration)}
}

// Performer is a row of the artists dimension.
type Performer struct {
	ID        string
	Name      *string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

func PerformerFromRecord(r records.Record) Performer {
	return Performer{
		ID:        stringOrEmpty(r, "artist_id"),
		Name:      r.String("artist_name"),
		Location:  r.String("artist_location"),
		Latitude:  r.Float64("artist_latitude"),
		Longitude: r.Float64("artist_longitude"),
	}
}

func (p Performer) Row() []any {
	return []any{p.ID, deref(p.Name), deref(p.Location), deref(p.Latitude), deref(p.Longitude)}
}

// Listener is a row of the users dimension. Level is the subscription tier
// and is the one dimension attribute expected to change between runs.
type Listener struct {
	ID        int64
	FirstName *string
	LastName  *string
	Gender    *string
	Level     *string
}

func ListenerFromRecord(r records.Record) Listener {
	var id int64
	if v := r.Int64("userId"); v != nil {
		id = *v
	}
	return Listener{
		ID:        id,
		FirstName: r.String("firstName"),
		LastName:  r.String("lastName"),
		Gender:    r.String("gender"),
		Level:     r.String("level"),
	}
}

func (l Listener) Row() []any {
	return []any{l.ID, deref(l.FirstName), deref(l.LastName), deref(l.Gender), deref(l.Level)}
}

// Playback is a row of the songplays fact table. TrackID and PerformerID are
// either both set or both nil; the resolver never produces a partial pair.
type Playback struct {
	StartTime   int64
	ListenerID  int64
	Level       *string
	TrackID     *string
	PerformerID *string
	SessionID   *int64
	Location    *string
	UserAgent   *string
}

// PlaybackFromRecord builds a fact row from an assembled record: a filtered
// event row with the resolved song_id/artist_id already joined on.
func PlaybackFromRecord(r records.Record) Playback {
	var ts, uid int64
	if v := r.Int64("ts"); v != nil {
		ts = *v
	}
	if v := r.Int64("userId"); v != nil {
		uid = *v
	}
	return Playback{
		StartTime:   ts,
		ListenerID:  uid,
		Level:       r.String("level"),
		TrackID:     r.String("song_id"),
		PerformerID: r.String("artist_id"),
		SessionID:   r.Int64("sessionId"),
		Location:    r.String("location"),
		UserAgent:   r.String("userAgent"),
	}
}

func (p Playback) Row() []any {
	return []any{
		p.StartTime, p.ListenerID, deref(p.Level), deref(p.TrackID),
		deref(p.PerformerID), deref(p.SessionID), deref(p.Location), deref(p.UserAgent),
	}
}

func stringOrEmpty(r records.Record, key string) string {
	if v := r.String(key); v != nil {
		return *v
	}
	return ""
}

// deref lowers a typed nullable pointer into a driver-friendly any: nil
// pointer -> nil, otherwise the pointed-to value.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
