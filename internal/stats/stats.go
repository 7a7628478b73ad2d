// Package stats summarizes live fuel prices across the fleet.
package stats

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rubiojr/zapravka/pkg/api"
)

// Summary describes the prices of one fuel kind across a set of stations.
// Price figures only cover available quotes and are zero when there are none.
type Summary struct {
	Kind      api.FuelKind `json:"type"`
	Stations  int          `json:"stations"`
	Available int          `json:"available"`
	Min       int64        `json:"min"`
	Max       int64        `json:"max"`
	Mean      float64      `json:"mean"`
	Median    int64        `json:"median"`
	// MarketRate is the reference price, zero if the kind has no rate.
	MarketRate int64 `json:"marketRate"`
}

// Overview returns one Summary per fuel kind in api.AllFuelKinds order.
// Kinds that no station offers are omitted.
func Overview(stations []api.Station, rates []api.MarketRate) []Summary {
	offered := make(map[api.FuelKind]int)
	prices := make(map[api.FuelKind][]float64)
	for _, st := range stations {
		for _, f := range st.Fuels {
			offered[f.Kind]++
			if f.Available {
				prices[f.Kind] = append(prices[f.Kind], float64(f.Price))
			}
		}
	}

	reference := make(map[api.FuelKind]int64, len(rates))
	for _, r := range rates {
		reference[r.Kind] = r.Price
	}

	var out []Summary
	for _, kind := range api.AllFuelKinds {
		if offered[kind] == 0 {
			continue
		}
		s := Summary{
			Kind:       kind,
			Stations:   offered[kind],
			Available:  len(prices[kind]),
			MarketRate: reference[kind],
		}
		if x := prices[kind]; len(x) > 0 {
			slices.Sort(x)
			s.Min = int64(floats.Min(x))
			s.Max = int64(floats.Max(x))
			s.Mean = stat.Mean(x, nil)
			s.Median = int64(stat.Quantile(0.5, stat.Empirical, x, nil))
		}
		out = append(out, s)
	}
	return out
}
