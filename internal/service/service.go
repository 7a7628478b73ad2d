// Package service exposes the fleet operations used by the HTTP server and
// the command line: fetching snapshots, polling for changes and searching.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/internal/geocode"
	"github.com/rubiojr/zapravka/internal/metrics"
	"github.com/rubiojr/zapravka/internal/mutation"
	"github.com/rubiojr/zapravka/internal/query"
	"github.com/rubiojr/zapravka/internal/searchlog"
	"github.com/rubiojr/zapravka/internal/stats"
	"github.com/rubiojr/zapravka/internal/store"
	"github.com/rubiojr/zapravka/internal/trip"
	"github.com/rubiojr/zapravka/pkg/api"
)

// DefaultViewer is used when the viewer's location cannot be determined.
var DefaultViewer = api.Coordinate{Lat: 41.2995, Lng: 69.2401}

var (
	ErrGeocoderDisabled  = errors.New("geocoder disabled")
	ErrSearchLogDisabled = errors.New("search log disabled")
)

// Mode controls when the fleet is mutated.
type Mode string

const (
	// ModePoll runs a mutation cycle on every PollLatest call.
	ModePoll Mode = "poll"
	// ModeTimer mutates on a fixed interval from Run.
	ModeTimer Mode = "timer"
)

// SearchLogger is the subset of searchlog.Store used by the service.
type SearchLogger interface {
	LogSearch(ctx context.Context, lat, lng, radiusKm float64) error
	Popular(ctx context.Context, limit int) ([]searchlog.PopularLocation, error)
}

// SearchRequest describes a viewer search. Viewer takes precedence over
// Place; when neither is set the results carry no distances.
type SearchRequest struct {
	Criteria query.Criteria
	Viewer   *api.Coordinate
	Place    string
}

// SearchResult is the outcome of a search. Warning is set when the
// requested place could not be resolved and DefaultViewer was used.
type SearchResult struct {
	Viewer   *api.Coordinate
	Warning  string
	Version  uint64
	Stations []api.Station
}

// Service ties the store, mutation engine and query engine together.
type Service struct {
	store    *store.FleetStore
	engine   *mutation.Engine
	mode     Mode
	interval time.Duration
	cache    *cache.Cache
	geocoder geocode.Geocoder
	searches SearchLogger
	sink     metrics.Sink
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMode selects when mutations happen. interval only matters for
// ModeTimer.
func WithMode(m Mode, interval time.Duration) Option {
	return func(s *Service) {
		s.mode = m
		s.interval = interval
	}
}

// WithCacheTTL caches search results for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// WithGeocoder enables place name lookups for SearchRequest.Place.
func WithGeocoder(g geocode.Geocoder) Option {
	return func(s *Service) {
		s.geocoder = g
	}
}

// WithSearchLog records viewer locations of successful searches.
func WithSearchLog(l SearchLogger) Option {
	return func(s *Service) {
		s.searches = l
	}
}

// WithSink reports query and fleet metrics to sink.
func WithSink(sink metrics.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// New creates a service in poll mode with a 30 second search cache unless
// opts say otherwise.
func New(st *store.FleetStore, engine *mutation.Engine, opts ...Option) *Service {
	s := &Service{
		store:    st,
		engine:   engine,
		mode:     ModePoll,
		interval: api.DefaultPollInterval,
		cache:    cache.New(30*time.Second, time.Minute),
		sink:     metrics.NopSink{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sink.RecordFleet(st.Len(), st.Version())
	return s
}

// Run drives time based mutation until ctx is cancelled. It returns
// immediately in poll mode.
func (s *Service) Run(ctx context.Context) {
	if s.mode != ModeTimer {
		return
	}
	s.engine.Run(ctx, s.interval)
}

// Mode returns the configured mutation mode.
func (s *Service) Mode() Mode {
	return s.mode
}

// FetchAll returns the complete fleet and market rates.
func (s *Service) FetchAll(ctx context.Context) (api.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return api.Snapshot{}, err
	}
	snap := s.store.Snapshot()
	s.sink.RecordFleet(len(snap.Stations), snap.Version)
	return snap, nil
}

// FetchRates returns the market rates.
func (s *Service) FetchRates(ctx context.Context) ([]api.MarketRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SnapshotRates(), nil
}

// PollLatest returns the current fleet. In poll mode it first applies one
// mutation cycle.
func (s *Service) PollLatest(ctx context.Context) (api.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return api.Snapshot{}, err
	}
	if s.mode == ModePoll {
		rep := s.engine.Cycle()
		if s.cache != nil {
			s.cache.Flush()
		}
		s.log.Debug("poll triggered mutation", "changed", rep.Changed)
	}
	snap := s.store.Snapshot()
	s.sink.RecordFleet(len(snap.Stations), snap.Version)
	return snap, nil
}

// ResolveViewer geocodes place. On failure it returns DefaultViewer together
// with the error so callers can carry on and report the problem.
func (s *Service) ResolveViewer(ctx context.Context, place string) (api.Coordinate, error) {
	if s.geocoder == nil {
		return DefaultViewer, ErrGeocoderDisabled
	}
	p, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		s.log.Warn("failed to resolve viewer location", "place", place, "error", err)
		return DefaultViewer, fmt.Errorf("error resolving %q: %w", place, err)
	}
	return p.Location, nil
}

// Search filters and ranks the current fleet for the request.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := req.Criteria.Validate(); err != nil {
		return nil, err
	}

	res := &SearchResult{Viewer: req.Viewer}
	logLocation := req.Viewer != nil
	if res.Viewer == nil && req.Place != "" {
		loc, err := s.ResolveViewer(ctx, req.Place)
		if err != nil {
			res.Warning = fmt.Sprintf("location %q could not be resolved, showing distances from the default location", req.Place)
		} else {
			logLocation = true
		}
		res.Viewer = &loc
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	version := s.store.Version()
	key := cacheKey(version, res.Viewer, req.Criteria)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			s.log.Debug("using cached search", "key", key)
			res.Version = version
			res.Stations = api.CloneStations(cached.([]api.Station))
			s.sink.RecordQuery(string(categoryOf(req.Criteria)), len(res.Stations), time.Since(start))
			s.logSearch(ctx, logLocation, res.Viewer, req.Criteria.RadiusKm)
			return res, nil
		}
	}

	snap := s.store.Snapshot()
	stations, err := query.Run(snap.Stations, res.Viewer, req.Criteria)
	if err != nil {
		return nil, err
	}
	// the caller went away, nothing was modified so just drop the result
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(cacheKey(snap.Version, res.Viewer, req.Criteria), api.CloneStations(stations), cache.DefaultExpiration)
	}
	s.sink.RecordQuery(string(categoryOf(req.Criteria)), len(stations), time.Since(start))
	s.logSearch(ctx, logLocation, res.Viewer, req.Criteria.RadiusKm)

	res.Version = snap.Version
	res.Stations = stations
	return res, nil
}

func (s *Service) logSearch(ctx context.Context, enabled bool, viewer *api.Coordinate, radiusKm float64) {
	if !enabled || viewer == nil || s.searches == nil {
		return
	}
	if err := s.searches.LogSearch(ctx, viewer.Lat, viewer.Lng, radiusKm); err != nil {
		s.log.Error("failed to log search location", "error", err)
		return
	}
	s.log.Debug("search location logged", "latitude", viewer.Lat, "longitude", viewer.Lng)
}

func categoryOf(c query.Criteria) query.Category {
	if c.Category == "" {
		return query.CategoryAll
	}
	return c.Category
}

func cacheKey(version uint64, viewer *api.Coordinate, c query.Criteria) string {
	v := "none"
	if viewer != nil {
		v = fmt.Sprintf("%f_%f", viewer.Lat, viewer.Lng)
	}
	return fmt.Sprintf("search_%d_%s_%s", version, v, c.Key())
}

// Stats summarizes current prices per fuel kind.
func (s *Service) Stats(ctx context.Context) ([]stats.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	return stats.Overview(snap.Stations, snap.Rates), nil
}

// TripCost estimates the cost of driving distanceKm at the given consumption
// per 100 km, for every fuel kind with a market rate.
func (s *Service) TripCost(ctx context.Context, distanceKm, consumption decimal.Decimal) ([]trip.Cost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return trip.Estimate(distanceKm, consumption, s.store.SnapshotRates())
}

// PopularLocations returns clustered search locations, most popular first.
func (s *Service) PopularLocations(ctx context.Context, limit int) ([]searchlog.PopularLocation, error) {
	if s.searches == nil {
		return nil, ErrSearchLogDisabled
	}
	locs, err := s.searches.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting popular locations: %w", err)
	}
	return locs, nil
}

// RegionPlaces returns a geocoder that knows every region by name. It is
// used when network geocoding is disabled.
func RegionPlaces() geocode.Static {
	places := geocode.Static{}
	for _, p := range fleet.DefaultProfiles() {
		places[p.Region] = p.Center
	}
	return places
}
