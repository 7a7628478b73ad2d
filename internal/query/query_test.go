package query

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/pkg/api"
)

const kmPerDegree = 111.19492664

var viewer = api.Coordinate{Lat: 41.0, Lng: 69.0}

// north returns a point d km due north of the viewer.
func north(d float64) api.Coordinate {
	return api.Coordinate{Lat: viewer.Lat + d/kmPerDegree, Lng: viewer.Lng}
}

func scenario() []api.Station {
	mk := func(id string, d float64, price int64, rating float64) api.Station {
		return api.Station{
			ID:          id,
			Name:        "Station " + id,
			Region:      "Toshkent shahri",
			District:    "Chilonzor",
			Location:    north(d),
			Fuels:       []api.FuelQuote{{Kind: api.Benzi92, Price: price, Available: true}},
			QueueStatus: api.QueueLow,
			IsOpen:      true,
			Rating:      rating,
			Amenities:   []api.Amenity{},
		}
	}
	return []api.Station{
		mk("A", 1, 9500, 4.0),
		mk("B", 5, 9000, 4.8),
		mk("C", 2, 9700, 3.9),
	}
}

func ids(stations []api.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}

func TestRun_Scenario(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		expected []string
	}{
		{"distance", Criteria{Sort: SortDistance}, []string{"A", "C", "B"}},
		{"price petrol tab", Criteria{Sort: SortPrice, Category: CategoryPetrol}, []string{"B", "A", "C"}},
		{"price all tab", Criteria{Sort: SortPrice}, []string{"B", "A", "C"}},
		{"rating", Criteria{Sort: SortRating}, []string{"B", "A", "C"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := Run(scenario(), &viewer, test.criteria)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ids(res))
		})
	}
}

func TestRun_AnnotatesDistance(t *testing.T) {
	res, err := Run(scenario(), &viewer, Criteria{})
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.NotNil(t, res[0].Distance)
	assert.InDelta(t, 1.0, *res[0].Distance, 1e-6)

	res, err = Run(scenario(), nil, Criteria{})
	require.NoError(t, err)
	for _, st := range res {
		assert.Nil(t, st.Distance)
	}
	// no viewer: everything ties at +Inf and keeps input order
	assert.Equal(t, []string{"A", "B", "C"}, ids(res))
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	in := scenario()
	orig := api.CloneStations(in)

	res, err := Run(in, &viewer, Criteria{Sort: SortRating})
	require.NoError(t, err)
	res[0].Fuels[0].Price = 1

	assert.Equal(t, orig, in)
}

func TestRun_InvalidCriteria(t *testing.T) {
	tests := []Criteria{
		{Sort: "cheapest"},
		{Category: "diesel"},
		{RequiredAmenities: []api.Amenity{api.AmenityWC, "sauna"}},
		{RadiusKm: -1},
	}
	for _, c := range tests {
		_, err := Run(scenario(), &viewer, c)
		if !errors.Is(err, ErrInvalidCriteria) {
			t.Errorf("Run(%+v) error = %v, expected ErrInvalidCriteria", c, err)
		}
	}
}

func TestRun_EmptyResultIsNotAnError(t *testing.T) {
	res, err := Run(scenario(), nil, Criteria{SearchText: "nothing matches this"})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	res, err = Run(nil, nil, Criteria{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRun_Radius(t *testing.T) {
	res, err := Run(scenario(), &viewer, Criteria{RadiusKm: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, ids(res))

	// without a viewer the radius cannot apply
	res, err = Run(scenario(), nil, Criteria{RadiusKm: 3})
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func mustFilter(t *testing.T, stations []api.Station, c Criteria) []api.Station {
	t.Helper()
	out, err := Filter(stations, c)
	require.NoError(t, err)
	return out
}

func TestFilterAndSort_RejectInvalidCriteria(t *testing.T) {
	stations := scenario()

	tests := []Criteria{
		{Category: "diesel"},
		{Sort: "cheapest"},
		{RequiredAmenities: []api.Amenity{"pool"}},
		{RadiusKm: -1},
	}
	for _, c := range tests {
		res, err := Filter(stations, c)
		assert.ErrorIs(t, err, ErrInvalidCriteria, "%+v", c)
		assert.Nil(t, res, "%+v", c)

		before := ids(stations)
		assert.ErrorIs(t, Sort(stations, c), ErrInvalidCriteria, "%+v", c)
		assert.Equal(t, before, ids(stations), "%+v", c)
	}
}

func TestFilter_OpenOnly(t *testing.T) {
	stations := scenario()
	stations[1].IsOpen = false

	res := mustFilter(t, stations, Criteria{OpenOnly: true, SearchText: "station"})
	assert.Equal(t, []string{"A", "C"}, ids(res))

	res = mustFilter(t, stations, Criteria{})
	assert.Len(t, res, 3)
}

func TestFilter_SearchText(t *testing.T) {
	stations := scenario()
	stations[0].Address = "Bunyodkor shoh ko'chasi"
	stations[2].District = "Sergeli"

	tests := []struct {
		text     string
		expected []string
	}{
		{"", []string{"A", "B", "C"}},
		{"STATION b", []string{"B"}},
		{"bunyodkor", []string{"A"}},
		{"sergeli", []string{"C"}},
		{"chilonzor", []string{"A", "B"}},
	}
	for _, test := range tests {
		res := mustFilter(t, stations, Criteria{SearchText: test.text})
		assert.Equal(t, test.expected, ids(res), test.text)
	}
}

func TestFilter_Region(t *testing.T) {
	stations := scenario()
	stations[2].Region = "Samarqand viloyati"

	assert.Len(t, mustFilter(t, stations, Criteria{Region: AllRegions}), 3)
	assert.Len(t, mustFilter(t, stations, Criteria{}), 3)
	assert.Equal(t, []string{"C"}, ids(mustFilter(t, stations, Criteria{Region: "Samarqand viloyati"})))
	assert.Empty(t, mustFilter(t, stations, Criteria{Region: "samarqand viloyati"}))
}

func TestFilter_CategoryNeedsAvailableQuote(t *testing.T) {
	stations := scenario()
	stations[0].Fuels = []api.FuelQuote{{Kind: api.Metan, Price: 3750, Available: true}}
	stations[1].Fuels = []api.FuelQuote{
		{Kind: api.Metan, Price: 3750, Available: false},
		{Kind: api.Benzi80, Price: 6800, Available: true},
	}
	stations[2].Fuels = []api.FuelQuote{{Kind: api.Elektr, Price: 1800, Available: true}}

	assert.Equal(t, []string{"A"}, ids(mustFilter(t, stations, Criteria{Category: CategoryGas})))
	assert.Equal(t, []string{"B"}, ids(mustFilter(t, stations, Criteria{Category: CategoryPetrol})))
	assert.Equal(t, []string{"C"}, ids(mustFilter(t, stations, Criteria{Category: CategoryElectric})))
	assert.Len(t, mustFilter(t, stations, Criteria{Category: CategoryAll}), 3)
}

func TestFilter_AmenitiesAreConjunctive(t *testing.T) {
	stations := scenario()
	stations[0].Amenities = []api.Amenity{api.AmenityWC, api.AmenityCafe}
	stations[1].Amenities = []api.Amenity{api.AmenityWC}
	stations[2].Amenities = []api.Amenity{api.AmenityCafe, api.AmenityWC, api.AmenityAir}

	res := mustFilter(t, stations, Criteria{RequiredAmenities: []api.Amenity{api.AmenityWC, api.AmenityCafe}})
	assert.Equal(t, []string{"A", "C"}, ids(res))
}

func TestFilter_IsProjection(t *testing.T) {
	stations := fleet.New(8, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)).Generate()
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		c := Criteria{
			Category: Categories[rng.IntN(len(Categories))],
			OpenOnly: rng.IntN(2) == 0,
		}
		if rng.IntN(2) == 0 {
			c.Region = fleet.Regions[rng.IntN(len(fleet.Regions))]
		}
		for _, a := range api.AllAmenities {
			if rng.IntN(5) == 0 {
				c.RequiredAmenities = append(c.RequiredAmenities, a)
			}
		}
		once := mustFilter(t, stations, c)
		twice := mustFilter(t, once, c)
		require.Equal(t, once, twice, "criteria %+v", c)
	}
}

func TestSort_PriceAllTabOnlyComparesCommonGrades(t *testing.T) {
	stations := []api.Station{
		{ID: "ev", Fuels: []api.FuelQuote{{Kind: api.Elektr, Price: 1800, Available: true}}},
		{ID: "ai92", Fuels: []api.FuelQuote{{Kind: api.Benzi92, Price: 9200, Available: true}}},
		{ID: "ai80", Fuels: []api.FuelQuote{{Kind: api.Benzi80, Price: 6800, Available: true}, {Kind: api.Metan, Price: 3750, Available: true}}},
		{ID: "ai80-out", Fuels: []api.FuelQuote{{Kind: api.Benzi80, Price: 6000, Available: false}}},
	}

	require.NoError(t, Sort(stations, Criteria{Sort: SortPrice, Category: CategoryAll}))
	assert.Equal(t, []string{"ai80", "ai92", "ev", "ai80-out"}, ids(stations))

	require.NoError(t, Sort(stations, Criteria{Sort: SortPrice, Category: CategoryGas}))
	assert.Equal(t, "ai80", stations[0].ID)
}

func TestSort_StableAcrossIrrelevantFields(t *testing.T) {
	a := scenario()
	b := scenario()
	for i := range b {
		b[i].QueueStatus = api.QueueCritical
		b[i].ReviewCount = 1000 - i
		b[i].Name = "renamed"
	}
	ra, err := Run(a, &viewer, Criteria{Sort: SortDistance})
	require.NoError(t, err)
	rb, err := Run(b, &viewer, Criteria{Sort: SortDistance})
	require.NoError(t, err)
	assert.Equal(t, ids(ra), ids(rb))
}

func TestSort_TiesKeepInputOrder(t *testing.T) {
	stations := []api.Station{
		{ID: "1", Rating: 4}, {ID: "2", Rating: 5}, {ID: "3", Rating: 4}, {ID: "4", Rating: 5},
	}
	require.NoError(t, Sort(stations, Criteria{Sort: SortRating}))
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(stations))
}

func TestKindSets(t *testing.T) {
	assert.Nil(t, KindSet(CategoryAll))
	assert.Equal(t, []api.FuelKind{api.Benzi80, api.Benzi92}, PriceKinds(CategoryAll))
	assert.Equal(t, KindSet(CategoryElectric), PriceKinds(CategoryElectric))

	// every fuel kind belongs to exactly one tab
	for _, k := range api.AllFuelKinds {
		n := 0
		for _, c := range Categories {
			for _, member := range KindSet(c) {
				if member == k {
					n++
				}
			}
		}
		assert.Equal(t, 1, n, k)
	}

	// the returned set is a copy
	KindSet(CategoryGas)[0] = api.Dizel
	assert.Equal(t, api.Metan, KindSet(CategoryGas)[0])
}

func TestCriteriaKey(t *testing.T) {
	a := Criteria{RequiredAmenities: []api.Amenity{api.AmenityWC, api.AmenityCafe}}
	b := Criteria{Region: AllRegions, Category: CategoryAll, Sort: SortDistance,
		RequiredAmenities: []api.Amenity{api.AmenityCafe, api.AmenityWC, api.AmenityWC}}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Criteria{OpenOnly: true}.Key())
}

func BenchmarkRun(b *testing.B) {
	stations := fleet.New(1, time.Now()).Generate()
	c := Criteria{Category: CategoryPetrol, Sort: SortPrice, OpenOnly: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(stations, &viewer, c); err != nil {
			b.Fatal(err)
		}
	}
}
