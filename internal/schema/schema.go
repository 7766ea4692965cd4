// Package schema fixes the shape of the star schema the pipeline loads into:
// table names, column orders, source-field projections, and the typed entity
// records that bridge loosely typed input rows and database rows.
//
// The table DDL itself lives outside this repository; what the loader must
// honor exactly is the column order and null handling declared here.
package schema

// Target tables. Dimensions load before the fact table; songplays carries
// foreign keys into all four dimensions.
const (
	TableSongplays = "songplays"
	TableUsers     = "users"
	TableSongs     = "songs"
	TableArtists   = "artists"
	TableTimes     = "times"
)

// Destination column orders. Loaders emit values in exactly this order for
// both the row-insert and bulk paths.
var (
	SongColumns     = []string{"song_id", "title", "artist_id", "year", "duration"}
	ArtistColumns   = []string{"artist_id", "name", "location", "latitude", "longitude"}
	UserColumns     = []string{"user_id", "first_name", "last_name", "gender", "level"}
	TimeColumns     = []string{"start_time", "hour", "day", "week", "month", "year", "weekday"}
	SongplayColumns = []string{"start_time", "user_id", "level", "song_id", "artist_id", "session_id", "location", "user_agent"}
)

// Source-field projections: the raw JSON fields each table load selects
// before cleaning, mirroring the field names used by the producers.
var (
	SongFields     = []string{"song_id", "title", "artist_id", "year", "duration"}
	ArtistFields   = []string{"artist_id", "artist_name", "artist_location", "artist_latitude", "artist_longitude"}
	UserFields     = []string{"userId", "firstName", "lastName", "gender", "level"}
	SongplayFields = []string{"ts", "userId", "level", "sessionId", "location", "userAgent", "song", "artist", "length", "page"}
)

// Primary keys used by the cleaning step, per source projection.
const (
	SongKey   = "song_id"
	ArtistKey = "artist_id"
	UserKey   = "userId"
	TimeKey   = "start_time"
)
