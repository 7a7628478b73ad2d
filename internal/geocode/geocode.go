// Package geocode resolves place names to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"net/http"
	"strings"
	"time"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"

	"github.com/rubiojr/zapravka/pkg/api"
)

const (
	DefaultServer        = "https://nominatim.openstreetmap.org/"
	defaultCacheExpiry   = 24 * time.Hour
	defaultCacheCleanup  = time.Hour
	defaultLookupTimeout = 10 * time.Second
)

// ErrNotFound is returned when a query matches no place.
var ErrNotFound = errors.New("location not found")

// Place is a resolved location.
type Place struct {
	Name     string         `json:"name"`
	Location api.Coordinate `json:"location"`
}

// Geocoder resolves a free form place name.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}

// serverSlot serializes lookups since the gominatim server is package global
// state. Waiters give up when their context is done; the holder releases the
// slot once its request returns, which gominatim bounds only by
// http.DefaultClient.Timeout (see SetRequestTimeout).
var serverSlot = make(chan struct{}, 1)

// SetRequestTimeout bounds every Nominatim HTTP request. gominatim uses
// http.DefaultClient, so this applies process wide. Zero means no timeout.
func SetRequestTimeout(d time.Duration) {
	http.DefaultClient.Timeout = d
}

// Nominatim geocodes through an OpenStreetMap Nominatim server and caches
// successful lookups.
type Nominatim struct {
	server string
	cache  *cache.Cache
}

// NewNominatim creates a geocoder for server, DefaultServer when empty.
func NewNominatim(server string) *Nominatim {
	if server == "" {
		server = DefaultServer
	}
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	return &Nominatim{
		server: server,
		cache:  cache.New(defaultCacheExpiry, defaultCacheCleanup),
	}
}

type lookup struct {
	results []gominatim.SearchResult
	err     error
}

// Geocode returns the best match for query. The lookup is abandoned when ctx
// is done.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	key := strings.ToLower(query)
	if cached, ok := n.cache.Get(key); ok {
		return cached.(Place), nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultLookupTimeout)
		defer cancel()
	}

	done := make(chan lookup, 1)
	go func() {
		select {
		case serverSlot <- struct{}{}:
		case <-ctx.Done():
			done <- lookup{err: ctx.Err()}
			return
		}
		defer func() { <-serverSlot }()

		gominatim.SetServer(n.server)
		sq := gominatim.SearchQuery{Q: query}
		results, err := sq.Get()
		done <- lookup{results: results, err: err}
	}()

	var res lookup
	select {
	case <-ctx.Done():
		return Place{}, fmt.Errorf("geocoding %q: %w", query, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return Place{}, fmt.Errorf("geocoding error: %w", res.err)
	}
	if len(res.results) == 0 {
		return Place{}, fmt.Errorf("%w: %s", ErrNotFound, query)
	}

	place, err := toPlace(res.results[0])
	if err != nil {
		return Place{}, err
	}
	n.cache.Set(key, place, cache.DefaultExpiration)
	return place, nil
}

func toPlace(r gominatim.SearchResult) (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("error parsing longitude: %w", err)
	}
	return Place{Name: r.DisplayName, Location: api.Coordinate{Lat: lat, Lng: lng}}, nil
}

// Static resolves names from a fixed table, case-insensitively. It backs the
// geocoder when network lookups are disabled.
type Static map[string]api.Coordinate

// Geocode returns ErrNotFound for names outside the table.
func (s Static) Geocode(_ context.Context, query string) (Place, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	for name, loc := range s {
		if strings.ToLower(name) == key {
			return Place{Name: name, Location: loc}, nil
		}
	}
	return Place{}, fmt.Errorf("%w: %s", ErrNotFound, query)
}
