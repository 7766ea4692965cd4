// Package pipeline orchestrates one end-to-end run: extract both input
// trees, load the four dimensions, resolve surrogate keys, and load the
// fact table.
//
// The run is a strict stage sequence. Dimensions always load before facts
// so that every surrogate key referenced by a fact row already exists, and
// artists load before songs for the same reason one level down. Any stage
// error aborts the run; nothing after the failed stage executes.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"playetl/internal/assemble"
	"playetl/internal/caltime"
	"playetl/internal/config"
	"playetl/internal/metrics"
	jsonparser "playetl/internal/parser/json"
	"playetl/internal/resolver"
	"playetl/internal/schema"
	"playetl/internal/storage"
	"playetl/internal/transformer"
	"playetl/internal/transformer/builtin"
	"playetl/pkg/records"
)

// State identifies the stage a run is in. States advance monotonically; a
// failed run stops in the stage that failed.
type State int

const (
	StateExtract State = iota
	StateLoadDimensions
	StateResolveFacts
	StateCleanFacts
	StateLoadFacts
	StateDone
)

func (s State) String() string {
	switch s {
	case StateExtract:
		return "extract"
	case StateLoadDimensions:
		return "load_dimensions"
	case StateResolveFacts:
		return "resolve_facts"
	case StateCleanFacts:
		return "clean_facts"
	case StateLoadFacts:
		return "load_facts"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Summary reports what one run did.
type Summary struct {
	CatalogRecords int // raw catalog records extracted
	EventRecords   int // raw event records extracted
	SkippedLines   int // unparsable input lines across both trees
	Plays          int // events surviving the playback filter

	// Rows written per table as reported by the loader. Conflict-skipped
	// rows are not counted, so a clean re-run reports zeros here.
	Artists   int64
	Songs     int64
	Users     int64
	Times     int64
	Songplays int64
}

// Pipeline runs the ETL against an open repository.
type Pipeline struct {
	cfg   config.Run
	repo  storage.Repository
	state State
}

func New(cfg config.Run, repo storage.Repository) *Pipeline {
	return &Pipeline{cfg: cfg, repo: repo}
}

// State returns the stage the last (or current) Run reached.
func (p *Pipeline) State() State { return p.state }

// Run executes the full pipeline once. The returned Summary is valid even on
// error, reflecting the stages that completed.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var (
		sum     Summary
		catalog []records.Record
		events  []records.Record
	)

	err := p.stage(StateExtract, func() error {
		var err error
		catalog, events, sum.SkippedLines, err = p.extract(ctx)
		sum.CatalogRecords = len(catalog)
		sum.EventRecords = len(events)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(p.cfg.Job, "catalog", int64(sum.CatalogRecords))
	metrics.RecordRows(p.cfg.Job, "events", int64(sum.EventRecords))

	plays := assemble.FilterPlays(events)
	sum.Plays = len(plays)

	err = p.stage(StateLoadDimensions, func() error {
		return p.loadDimensions(ctx, catalog, plays, &sum)
	})
	if err != nil {
		return sum, err
	}

	var facts []records.Record
	err = p.stage(StateResolveFacts, func() error {
		keys, err := resolver.New(p.repo).Resolve(ctx, plays)
		if err != nil {
			return err
		}
		facts, err = assemble.Facts(plays, keys)
		return err
	})
	if err != nil {
		return sum, err
	}

	err = p.stage(StateCleanFacts, func() error {
		facts = builtin.Clean{}.Apply(facts)
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = p.stage(StateLoadFacts, func() error {
		n, err := p.loadFacts(ctx, facts)
		sum.Songplays = n
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(p.cfg.Job, schema.TableSongplays, sum.Songplays)

	p.state = StateDone
	log.Printf("pipeline: job=%s state=done catalog=%d events=%d plays=%d songplays=%d",
		p.cfg.Job, sum.CatalogRecords, sum.EventRecords, sum.Plays, sum.Songplays)
	return sum, nil
}

// stage runs fn as the named stage, timing it and recording the outcome.
func (p *Pipeline) stage(s State, fn func() error) error {
	p.state = s
	log.Printf("pipeline: job=%s state=%s", p.cfg.Job, s)
	start := time.Now()
	err := fn()
	metrics.RecordStage(p.cfg.Job, s.String(), err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}
	return nil
}

// extract walks the catalog and event trees concurrently. Either tree
// failing fails the stage.
func (p *Pipeline) extract(ctx context.Context) (catalog, events []records.Record, skipped int, err error) {
	var catSkip, evSkip int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, catSkip, err = jsonparser.ExtractDir(gctx, p.cfg.Source.CatalogRoot, nil)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", p.cfg.Source.CatalogRoot, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, evSkip, err = jsonparser.ExtractDir(gctx, p.cfg.Source.EventsRoot, nil)
		if err != nil {
			return fmt.Errorf("events %s: %w", p.cfg.Source.EventsRoot, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}
	return catalog, events, catSkip + evSkip, nil
}

// loadDimensions prepares and loads the four dimension tables in foreign-key
// order: artists before songs (songs reference artists), then users and
// times from the filtered playback events.
func (p *Pipeline) loadDimensions(ctx context.Context, catalog, plays []records.Record, sum *Summary) error {
	prep := func(src []records.Record, fields []string, key string) []records.Record {
		out := make([]records.Record, len(src))
		for i, r := range src {
			out[i] = r.Project(fields)
		}
		return transformer.Chain{builtin.Normalize{}, builtin.Clean{PrimaryKey: key}}.Apply(out)
	}

	performers := prep(catalog, schema.ArtistFields, schema.ArtistKey)
	rows := make([][]any, len(performers))
	for i, r := range performers {
		rows[i] = schema.PerformerFromRecord(r).Row()
	}
	n, err := p.repo.InsertRows(ctx, schema.TableArtists, schema.ArtistColumns, rows, storage.Conflict{Key: "artist_id"})
	if err != nil {
		return fmt.Errorf("load %s: %w", schema.TableArtists, err)
	}
	sum.Artists = n
	metrics.RecordRows(p.cfg.Job, schema.TableArtists, n)

	tracks := prep(catalog, schema.SongFields, schema.SongKey)
	rows = make([][]any, len(tracks))
	for i, r := range tracks {
		rows[i] = schema.TrackFromRecord(r).Row()
	}
	n, err = p.repo.InsertRows(ctx, schema.TableSongs, schema.SongColumns, rows, storage.Conflict{Key: "song_id"})
	if err != nil {
		return fmt.Errorf("load %s: %w", schema.TableSongs, err)
	}
	sum.Songs = n
	metrics.RecordRows(p.cfg.Job, schema.TableSongs, n)

	listeners := prep(plays, schema.UserFields, schema.UserKey)
	rows = make([][]any, len(listeners))
	for i, r := range listeners {
		rows[i] = schema.ListenerFromRecord(r).Row()
	}
	// Level changes when a listener up- or downgrades, so re-runs refresh it
	// instead of skipping the row.
	n, err = p.repo.InsertRows(ctx, schema.TableUsers, schema.UserColumns, rows, storage.Conflict{Key: "user_id", Update: []string{"level"}})
	if err != nil {
		return fmt.Errorf("load %s: %w", schema.TableUsers, err)
	}
	sum.Users = n
	metrics.RecordRows(p.cfg.Job, schema.TableUsers, n)

	units := builtin.Clean{PrimaryKey: schema.TimeKey}.Apply(caltime.Decompose(plays))
	rows = make([][]any, len(units))
	for i, r := range units {
		rows[i] = caltime.At(*r.Int64("start_time")).Row()
	}
	n, err = p.repo.InsertRows(ctx, schema.TableTimes, schema.TimeColumns, rows, storage.Conflict{Key: "start_time"})
	if err != nil {
		return fmt.Errorf("load %s: %w", schema.TableTimes, err)
	}
	sum.Times = n
	metrics.RecordRows(p.cfg.Job, schema.TableTimes, n)

	return nil
}

// loadFacts writes the assembled fact rows using the configured strategy.
func (p *Pipeline) loadFacts(ctx context.Context, facts []records.Record) (int64, error) {
	rows := make([][]any, len(facts))
	for i, r := range facts {
		rows[i] = schema.PlaybackFromRecord(r).Row()
	}

	switch p.cfg.Storage.FactLoad {
	case config.FactLoadRows:
		return p.repo.InsertRows(ctx, schema.TableSongplays, schema.SongplayColumns, rows, storage.Conflict{})
	default: // bulk
		opts := storage.CopyOptions{FloatPrecision: p.cfg.Storage.DurationPrecision}
		return p.repo.CopyRows(ctx, schema.TableSongplays, schema.SongplayColumns, rows, opts)
	}
}
