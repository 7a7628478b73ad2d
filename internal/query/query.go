// Package query filters, ranks and annotates station snapshots for a viewer.
package query

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/rubiojr/zapravka/internal/geo"
	"github.com/rubiojr/zapravka/pkg/api"
)

// NoPrice ranks stations without a qualifying quote last on price sorts.
const NoPrice int64 = 999999999

// Run evaluates c against stations. The input is never modified; the result
// holds independent copies, annotated with distances when viewer is set.
func Run(stations []api.Station, viewer *api.Coordinate, c Criteria) ([]api.Station, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c = c.normalized()

	out := api.CloneStations(stations)
	if out == nil {
		out = []api.Station{}
	}
	if viewer != nil {
		Annotate(out, *viewer)
	}
	out = filter(out, c)
	if viewer != nil && c.RadiusKm > 0 {
		out = slices.DeleteFunc(out, func(st api.Station) bool {
			return !geo.WithinRadius(*viewer, st.Location, c.RadiusKm)
		})
	}
	sortStations(out, c)
	return out, nil
}

// Annotate sets each station's distance from the viewer.
func Annotate(stations []api.Station, viewer api.Coordinate) {
	for i := range stations {
		d := geo.DistanceKm(viewer, stations[i].Location)
		stations[i].Distance = &d
	}
}

// Filter returns the stations matching every condition of c, in their
// original order. Radius is not applied since it needs a viewer; see Run.
func Filter(stations []api.Station, c Criteria) ([]api.Station, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return filter(stations, c.normalized()), nil
}

// filter expects validated, normalized criteria.
func filter(stations []api.Station, c Criteria) []api.Station {
	needle := strings.ToLower(c.SearchText)
	kinds := kindSets[c.Category]

	out := make([]api.Station, 0, len(stations))
	for _, st := range stations {
		if needle != "" && !matchesText(st, needle) {
			continue
		}
		if c.Region != AllRegions && st.Region != c.Region {
			continue
		}
		if c.Category != CategoryAll && !hasAvailable(st, kinds) {
			continue
		}
		if c.OpenOnly && !st.IsOpen {
			continue
		}
		if !hasAll(st, c.RequiredAmenities) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func matchesText(st api.Station, needle string) bool {
	return strings.Contains(strings.ToLower(st.Name), needle) ||
		strings.Contains(strings.ToLower(st.Address), needle) ||
		strings.Contains(strings.ToLower(st.District), needle)
}

func hasAvailable(st api.Station, kinds []api.FuelKind) bool {
	for _, f := range st.Fuels {
		if f.Available && slices.Contains(kinds, f.Kind) {
			return true
		}
	}
	return false
}

func hasAll(st api.Station, required []api.Amenity) bool {
	for _, a := range required {
		if !st.HasAmenity(a) {
			return false
		}
	}
	return true
}

// Sort orders stations in place by c.Sort. The sort is stable, so equal keys
// keep their input order. Invalid criteria leave stations untouched.
func Sort(stations []api.Station, c Criteria) error {
	if err := c.Validate(); err != nil {
		return err
	}
	sortStations(stations, c.normalized())
	return nil
}

func sortStations(stations []api.Station, c Criteria) {
	switch c.Sort {
	case SortDistance:
		slices.SortStableFunc(stations, func(a, b api.Station) int {
			return cmp.Compare(distanceKey(a), distanceKey(b))
		})
	case SortRating:
		slices.SortStableFunc(stations, func(a, b api.Station) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortPrice:
		kinds := PriceKinds(c.Category)
		slices.SortStableFunc(stations, func(a, b api.Station) int {
			return cmp.Compare(MinPrice(a, kinds), MinPrice(b, kinds))
		})
	}
}

func distanceKey(st api.Station) float64 {
	if st.Distance == nil {
		return math.Inf(1)
	}
	return *st.Distance
}

// MinPrice returns the cheapest available price among kinds, or NoPrice.
func MinPrice(st api.Station, kinds []api.FuelKind) int64 {
	best := NoPrice
	for _, f := range st.Fuels {
		if f.Available && slices.Contains(kinds, f.Kind) && f.Price < best {
			best = f.Price
		}
	}
	return best
}
