// Package searchlog records where viewers search from, at reduced precision,
// and aggregates those locations into a popularity heatmap.
package searchlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const (
	decimalBase      = 10
	precisionPlaces  = 2
	clusterDistance  = 0.01 // degrees, roughly 1 km
	clusterTolerance = 1e-9
	defaultCacheSize = -16 * 1024 // negative value for KiB
	defaultPageSize  = 4096
	pruneBatchSize   = 500
)

// Store is a SQLite backed search location log.
type Store struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Entry is one logged location.
type Entry struct {
	ID          int64
	Latitude    float64
	Longitude   float64
	RadiusKm    float64
	SearchCount int64
	FirstSearch time.Time
	LastSearch  time.Time
}

// PopularLocation is a cluster of nearby searches.
type PopularLocation struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	SearchCount int64   `json:"weight"`
	RadiusKm    float64 `json:"radius"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for search timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New opens (or creates) the log at path. Use ":memory:" for a throwaway log.
func New(ctx context.Context, path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, log: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating search_locations table: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS search_locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius_km REAL NOT NULL DEFAULT 0,
		search_count INTEGER NOT NULL DEFAULT 1,
		first_search INTEGER NOT NULL,
		last_search INTEGER NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_search_locations_coordinates ON search_locations (latitude, longitude);
	CREATE INDEX IF NOT EXISTS idx_search_locations_last_search ON search_locations (last_search);
	`)
	if err != nil {
		return err
	}
	s.log.Debug("search_locations table created or verified")
	return nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA busy_timeout = 10000;", "busy timeout"},
		{"PRAGMA journal_mode = WAL;", "journal mode"},
		{"PRAGMA auto_vacuum = INCREMENTAL;", "auto vacuum"},
		{"PRAGMA temp_store = FILE;", "temp store"},
		{"PRAGMA mmap_size = 0;", "mmap size"},
		{"PRAGMA synchronous = NORMAL;", "synchronous"},
		{fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize), "cache size"},
		{fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize), "page size"},
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.stmt); err != nil {
			return fmt.Errorf("error setting %s: %w", p.what, err)
		}
	}
	return nil
}

func reducePrecision(lat, lng float64, places int) (float64, float64) {
	factor := math.Pow(decimalBase, float64(places))
	return math.Round(lat*factor) / factor, math.Round(lng*factor) / factor
}

// LogSearch records a search made from the given location. Coordinates are
// rounded to two decimals before they are stored.
func (s *Store) LogSearch(ctx context.Context, lat, lng, radiusKm float64) error {
	lat, lng = reducePrecision(lat, lng, precisionPlaces)
	ts := s.now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_locations (latitude, longitude, radius_km, first_search, last_search)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (latitude, longitude) DO UPDATE SET
			search_count = search_count + 1,
			radius_km = excluded.radius_km,
			last_search = MAX(last_search, excluded.last_search)
	`, lat, lng, radiusKm, ts, ts)
	if err != nil {
		return fmt.Errorf("error logging search location: %w", err)
	}
	return nil
}

// Entries returns logged locations, most searched first. A limit of zero
// returns everything.
func (s *Store) Entries(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, latitude, longitude, radius_km, search_count, first_search, last_search
			  FROM search_locations
			  ORDER BY search_count DESC, id ASC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving search locations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var first, last int64
		if err := rows.Scan(&e.ID, &e.Latitude, &e.Longitude, &e.RadiusKm, &e.SearchCount, &first, &last); err != nil {
			return nil, fmt.Errorf("error scanning search location: %w", err)
		}
		e.FirstSearch = time.Unix(first, 0).UTC()
		e.LastSearch = time.Unix(last, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return entries, nil
}

// Popular clusters nearby logged locations into weighted points, most
// popular first. A limit of zero returns every cluster.
func (s *Store) Popular(ctx context.Context, limit int) ([]PopularLocation, error) {
	entries, err := s.Entries(ctx, 0)
	if err != nil {
		return nil, err
	}

	processed := make(map[int64]bool, len(entries))
	var out []PopularLocation
	for i, seed := range entries {
		if processed[seed.ID] {
			continue
		}
		processed[seed.ID] = true

		cluster := PopularLocation{
			Latitude:    seed.Latitude,
			Longitude:   seed.Longitude,
			SearchCount: seed.SearchCount,
			RadiusKm:    seed.RadiusKm,
		}
		for j, other := range entries {
			if i == j || processed[other.ID] {
				continue
			}
			d := math.Hypot(seed.Latitude-other.Latitude, seed.Longitude-other.Longitude)
			if d > clusterDistance+clusterTolerance {
				continue
			}
			processed[other.ID] = true

			total := float64(cluster.SearchCount + other.SearchCount)
			cluster.Latitude = (cluster.Latitude*float64(cluster.SearchCount) + other.Latitude*float64(other.SearchCount)) / total
			cluster.Longitude = (cluster.Longitude*float64(cluster.SearchCount) + other.Longitude*float64(other.SearchCount)) / total
			cluster.SearchCount += other.SearchCount
			cluster.RadiusKm = max(cluster.RadiusKm, other.RadiusKm)
		}
		out = append(out, cluster)
	}

	slices.SortStableFunc(out, func(a, b PopularLocation) int {
		switch {
		case a.SearchCount > b.SearchCount:
			return -1
		case a.SearchCount < b.SearchCount:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune deletes locations not searched in the last daysOld days and returns
// how many were removed. Rows are deleted in small batches to keep write
// transactions short.
func (s *Store) Prune(ctx context.Context, daysOld int) (int64, error) {
	if daysOld < 0 {
		return 0, errors.New("daysOld must not be negative")
	}
	cutoff := s.now().AddDate(0, 0, -daysOld).Unix()
	s.log.Info("pruning search locations", "cutoff", time.Unix(cutoff, 0).UTC())

	var deleted int64
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM search_locations WHERE id IN (
				SELECT id FROM search_locations WHERE last_search < ? ORDER BY id LIMIT ?
			)`, cutoff, pruneBatchSize)
		if err != nil {
			return deleted, fmt.Errorf("error deleting search locations: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("error counting deleted rows: %w", err)
		}
		deleted += n
		if n < pruneBatchSize {
			break
		}
	}

	s.log.Info("completed search location pruning", "deleted_count", deleted)
	return deleted, nil
}

// Vacuum reclaims free pages left behind by Prune.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA incremental_vacuum(1000)"); err != nil {
		return fmt.Errorf("error performing incremental vacuum: %w", err)
	}
	return nil
}
