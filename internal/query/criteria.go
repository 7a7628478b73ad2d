package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rubiojr/zapravka/pkg/api"
)

// ErrInvalidCriteria is returned for criteria a caller should never send,
// such as an unknown sort key.
var ErrInvalidCriteria = errors.New("invalid criteria")

// AllRegions is the region value that disables region filtering.
const AllRegions = "Barcha hududlar"

// Category is a fuel tab: all stations, petrol, gas or electric.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryPetrol   Category = "petrol"
	CategoryGas      Category = "gas"
	CategoryElectric Category = "electric"
)

// Categories lists every valid category.
var Categories = []Category{CategoryAll, CategoryPetrol, CategoryGas, CategoryElectric}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// SortKey selects the ordering of query results.
type SortKey string

const (
	SortDistance SortKey = "distance"
	SortPrice    SortKey = "price"
	SortRating   SortKey = "rating"
)

// SortKeys lists every valid sort key.
var SortKeys = []SortKey{SortDistance, SortPrice, SortRating}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

var kindSets = map[Category][]api.FuelKind{
	CategoryPetrol:   {api.Benzi80, api.Benzi92, api.Benzi95, api.Benzi98, api.Dizel},
	CategoryGas:      {api.Metan, api.Propan},
	CategoryElectric: {api.Elektr},
}

// allTabPriceKinds restricts price ranking on the "all" tab to the cheap
// common petrol grades.
var allTabPriceKinds = []api.FuelKind{api.Benzi80, api.Benzi92}

// KindSet returns the fuel kinds that belong to a category tab. The "all"
// category has no kind set and returns nil.
func KindSet(c Category) []api.FuelKind {
	return slices.Clone(kindSets[c])
}

// PriceKinds returns the fuel kinds compared when sorting by price.
func PriceKinds(c Category) []api.FuelKind {
	if c == CategoryAll || c == "" {
		return slices.Clone(allTabPriceKinds)
	}
	return KindSet(c)
}

// Criteria holds the search, filter and sort parameters of a query.
// Zero values for Region, Category and Sort mean all regions, all categories
// and distance ordering.
type Criteria struct {
	SearchText        string
	Region            string
	Category          Category
	Sort              SortKey
	OpenOnly          bool
	RequiredAmenities []api.Amenity
	// RadiusKm limits results to stations within this distance of the viewer.
	// Zero disables the limit; it has no effect without a viewer.
	RadiusKm float64
}

func (c Criteria) normalized() Criteria {
	if c.Region == "" {
		c.Region = AllRegions
	}
	if c.Category == "" {
		c.Category = CategoryAll
	}
	if c.Sort == "" {
		c.Sort = SortDistance
	}
	return c
}

// Validate rejects unknown enum values and negative radii.
func (c Criteria) Validate() error {
	c = c.normalized()
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, c.Category)
	}
	if !c.Sort.Valid() {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, c.Sort)
	}
	for _, a := range c.RequiredAmenities {
		if !a.Valid() {
			return fmt.Errorf("%w: unknown amenity %q", ErrInvalidCriteria, a)
		}
	}
	if c.RadiusKm < 0 {
		return fmt.Errorf("%w: negative radius %g", ErrInvalidCriteria, c.RadiusKm)
	}
	return nil
}

// Key returns a stable representation of the criteria, suitable for use as
// a cache key.
func (c Criteria) Key() string {
	c = c.normalized()
	amenities := slices.Clone(c.RequiredAmenities)
	slices.Sort(amenities)
	amenities = slices.Compact(amenities)
	return fmt.Sprintf("q=%q|r=%q|c=%s|s=%s|o=%t|a=%v|rad=%g",
		c.SearchText, c.Region, c.Category, c.Sort, c.OpenOnly, amenities, c.RadiusKm)
}
