// Package fleet synthesizes the nationwide station population: the anchor
// stations plus a regionally weighted set of generated ones.
package fleet

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rubiojr/zapravka/pkg/api"
)

const (
	// generated ids start above anything an anchor could use
	firstGeneratedID = 1000
	locationJitter   = 0.15
)

var (
	evBrands      = []string{"TokBor", "Megawatt", "PlugShare", "Huawei", "Makro EV"}
	foreignBrands = []string{"Lukoil", "Gazpromneft", "Tatneft"}

	generatedAmenities = []api.Amenity{
		api.AmenityMarket, api.AmenityWC, api.AmenityPrayerRoom, api.AmenityCafe,
		api.AmenityAir, api.AmenityCarWash, api.AmenityOilChange, api.AmenityTireShop,
	}
)

// Generator builds a fleet. A Generator is not safe for concurrent use.
type Generator struct {
	rng      *rand.Rand
	now      time.Time
	profiles []RegionProfile
	counter  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithProfiles replaces the default regional profiles.
func WithProfiles(p []RegionProfile) Option {
	return func(g *Generator) {
		g.profiles = p
	}
}

// New creates a generator. The same seed and now always produce the same
// fleet.
func New(seed uint64, now time.Time, opts ...Option) *Generator {
	g := &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed)),
		now:      now,
		profiles: DefaultProfiles(),
		counter:  firstGeneratedID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the anchors followed by every generated station.
// It panics if it produces a station that fails Validate.
func (g *Generator) Generate() []api.Station {
	total := len(anchors)
	for _, p := range g.profiles {
		total += p.TargetCount
	}

	out := make([]api.Station, 0, total)
	out = append(out, Anchors(g.now)...)
	for _, p := range g.profiles {
		for range p.TargetCount {
			out = append(out, g.station(p))
		}
	}

	if err := ValidateFleet(out); err != nil {
		panic(fmt.Sprintf("generated fleet is malformed: %v", err))
	}
	return out
}

func (g *Generator) station(p RegionProfile) api.Station {
	isEV := g.rng.Float64() < p.EVProbability
	isGas := !isEV && g.rng.Float64() < 0.35

	brands := p.Brands
	if isEV {
		brands = evBrands
	}
	brand := pick(g.rng, brands)
	district := pick(g.rng, p.Districts)

	loc := api.Coordinate{
		Lat: p.Center.Lat + (g.rng.Float64()-0.5)*locationJitter,
		Lng: p.Center.Lng + (g.rng.Float64()-0.5)*locationJitter,
	}

	var name string
	if isEV {
		name = fmt.Sprintf("%s EV - %s #%d", brand, district, g.rng.IntN(99))
	} else {
		name = fmt.Sprintf("%s - %s %d", brand, district, g.rng.IntN(50)+1)
	}

	var fuels []api.FuelQuote
	switch {
	case isEV:
		fuels = g.evFuels()
	case isGas:
		fuels = g.gasFuels()
	default:
		fuels = g.petrolFuels(brand)
	}

	amenities := []api.Amenity{}
	for _, a := range generatedAmenities {
		if g.rng.Float64() > 0.5 {
			amenities = append(amenities, a)
		}
	}

	st := api.Station{
		ID:          fmt.Sprintf("gen-%s-%d", regionPrefix(p.Region), g.counter),
		Name:        name,
		Region:      p.Region,
		District:    district,
		Address:     fmt.Sprintf("%s markazi, %d-uy", district, g.rng.IntN(100)),
		Location:    loc,
		Fuels:       fuels,
		QueueStatus: pick(g.rng, api.QueueStatuses),
		LastUpdated: g.now,
		Amenities:   amenities,
		IsOpen:      g.rng.Float64() > 0.05,
		Rating:      3.5 + g.rng.Float64()*1.5,
		ReviewCount: g.rng.IntN(1000),
	}
	g.counter++
	return st
}

func (g *Generator) evFuels() []api.FuelQuote {
	return []api.FuelQuote{
		{Kind: api.Elektr, Price: 1800 + int64(g.rng.IntN(5))*50, Available: true},
	}
}

func (g *Generator) gasFuels() []api.FuelQuote {
	fuels := []api.FuelQuote{
		{Kind: api.Metan, Price: 3750, Available: g.rng.Float64() > 0.1},
	}
	if g.rng.Float64() > 0.4 {
		fuels = append(fuels, api.FuelQuote{Kind: api.Propan, Price: 5200 + int64(g.rng.IntN(6))*100, Available: true})
	}
	return fuels
}

func (g *Generator) petrolFuels(brand string) []api.FuelQuote {
	var fuels []api.FuelQuote
	if slices.Contains(foreignBrands, brand) {
		fuels = append(fuels,
			api.FuelQuote{Kind: api.Benzi92, Price: 10500 + int64(g.rng.IntN(4))*100, Available: true},
			api.FuelQuote{Kind: api.Benzi95, Price: 12500 + int64(g.rng.IntN(5))*100, Available: true},
			api.FuelQuote{Kind: api.Dizel, Price: 13000 + int64(g.rng.IntN(5))*100, Available: true},
		)
	} else {
		fuels = append(fuels,
			api.FuelQuote{Kind: api.Benzi80, Price: 6800, Available: g.rng.Float64() > 0.2},
			api.FuelQuote{Kind: api.Benzi92, Price: 9200 + int64(g.rng.IntN(5))*100, Available: true},
		)
		if g.rng.Float64() > 0.6 {
			fuels = append(fuels, api.FuelQuote{Kind: api.Dizel, Price: 12200, Available: true})
		}
	}
	if g.rng.Float64() > 0.8 {
		fuels = append(fuels, api.FuelQuote{Kind: api.Propan, Price: 5300 + int64(g.rng.IntN(4))*100, Available: true})
	}
	return fuels
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}

func regionPrefix(region string) string {
	r := []rune(region)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

var errInvalidStation = errors.New("invalid station")

// Validate checks a single station against the data model invariants.
func Validate(st api.Station) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", errInvalidStation, st.ID, fmt.Sprintf(format, args...))
	}

	if st.ID == "" {
		return fail("empty id")
	}
	if st.Rating < 0 || st.Rating > 5 {
		return fail("rating %.2f out of range", st.Rating)
	}
	if st.IsOpen && len(st.Fuels) == 0 {
		return fail("open station without fuels")
	}
	if !st.QueueStatus.Valid() {
		return fail("unknown queue status %q", st.QueueStatus)
	}
	if st.Distance != nil && *st.Distance < 0 {
		return fail("negative distance")
	}
	if st.ReviewCount < 0 {
		return fail("negative review count")
	}
	seen := make(map[api.FuelKind]bool, len(st.Fuels))
	for _, f := range st.Fuels {
		if f.Price <= 0 {
			return fail("non-positive price for %s", f.Kind)
		}
		if seen[f.Kind] {
			return fail("duplicate quote for %s", f.Kind)
		}
		seen[f.Kind] = true
	}
	for _, a := range st.Amenities {
		if !a.Valid() {
			return fail("unknown amenity %q", a)
		}
	}
	return nil
}

// ValidateFleet validates every station and checks that ids are unique.
func ValidateFleet(stations []api.Station) error {
	ids := make(map[string]struct{}, len(stations))
	for _, st := range stations {
		if err := Validate(st); err != nil {
			return err
		}
		if _, dup := ids[st.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", errInvalidStation, st.ID)
		}
		ids[st.ID] = struct{}{}
	}
	return nil
}
