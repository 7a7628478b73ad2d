// Package trip estimates what a journey costs for each fuel kind at current
// market rates.
package trip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rubiojr/zapravka/pkg/api"
)

// ErrInvalidTrip is wrapped by every trip input error.
var ErrInvalidTrip = errors.New("invalid trip")

var hundred = decimal.NewFromInt(100)

// Cost is the estimated cost of a trip using one fuel kind.
type Cost struct {
	Kind      api.FuelKind `json:"type"`
	UnitPrice int64        `json:"unitPrice"`
	// Units of fuel burned: litres, cubic metres or kWh.
	Units decimal.Decimal `json:"units"`
	Total int64           `json:"total"`
}

// Estimate computes distance/100 * consumption * price for every market
// rate. distanceKm and consumption (units per 100 km) must be positive.
func Estimate(distanceKm, consumption decimal.Decimal, rates []api.MarketRate) ([]Cost, error) {
	if !distanceKm.IsPositive() {
		return nil, fmt.Errorf("%w: distance must be positive", ErrInvalidTrip)
	}
	if !consumption.IsPositive() {
		return nil, fmt.Errorf("%w: consumption must be positive", ErrInvalidTrip)
	}

	units := distanceKm.Div(hundred).Mul(consumption)
	out := make([]Cost, 0, len(rates))
	for _, r := range rates {
		if r.Price <= 0 {
			continue
		}
		total := units.Mul(decimal.NewFromInt(r.Price)).Round(0)
		out = append(out, Cost{
			Kind:      r.Kind,
			UnitPrice: r.Price,
			Units:     units.Round(2),
			Total:     total.IntPart(),
		})
	}
	return out, nil
}

// ParseAmount parses a user supplied number, accepting a comma as decimal
// separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidTrip, s)
	}
	return d, nil
}
