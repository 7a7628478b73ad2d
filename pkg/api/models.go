package api

import (
	"slices"
	"time"
)

// FuelKind identifies a fuel or charging product sold at a station.
type FuelKind string

const (
	Benzi80 FuelKind = "AI-80"
	Benzi92 FuelKind = "AI-92"
	Benzi95 FuelKind = "AI-95"
	Benzi98 FuelKind = "AI-98"
	Metan   FuelKind = "Metan (CNG)"
	Propan  FuelKind = "Propan (LPG)"
	Dizel   FuelKind = "Dizel"
	Elektr  FuelKind = "Elektr (EV)"
)

// AllFuelKinds lists every known fuel kind in display order.
var AllFuelKinds = []FuelKind{Benzi80, Benzi92, Benzi95, Benzi98, Metan, Propan, Dizel, Elektr}

// QueueStatus describes how long the queue at a station currently is.
type QueueStatus string

const (
	QueueLow      QueueStatus = "low"
	QueueMedium   QueueStatus = "medium"
	QueueHigh     QueueStatus = "high"
	QueueCritical QueueStatus = "critical"
)

// QueueStatuses lists the queue levels from shortest to longest.
var QueueStatuses = []QueueStatus{QueueLow, QueueMedium, QueueHigh, QueueCritical}

// Valid reports whether q is a known queue level.
func (q QueueStatus) Valid() bool {
	return slices.Contains(QueueStatuses, q)
}

// Amenity is a service tag attached to a station.
type Amenity string

const (
	AmenityWC            Amenity = "wc"
	AmenityMarket        Amenity = "market"
	AmenityCafe          Amenity = "cafe"
	AmenityCarWash       Amenity = "car_wash"
	AmenityPrayerRoom    Amenity = "prayer_room"
	AmenityAir           Amenity = "air"
	AmenityWifi          Amenity = "wifi"
	AmenityOilChange     Amenity = "oil_change"
	AmenityTireShop      Amenity = "tire_shop"
	AmenityServiceCenter Amenity = "service_center"
)

// AllAmenities lists every amenity tag a station may carry.
var AllAmenities = []Amenity{
	AmenityWC, AmenityMarket, AmenityCafe, AmenityCarWash, AmenityPrayerRoom,
	AmenityAir, AmenityWifi, AmenityOilChange, AmenityTireShop, AmenityServiceCenter,
}

// Valid reports whether a is a known amenity tag.
func (a Amenity) Valid() bool {
	return slices.Contains(AllAmenities, a)
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FuelQuote is the price and availability of one fuel kind at a station.
// Prices are whole UZS.
type FuelQuote struct {
	Kind      FuelKind `json:"type"`
	Price     int64    `json:"price"`
	Available bool     `json:"available"`
}

// Station represents a single fuel or charging point and its live state.
type Station struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Region      string      `json:"region"`
	District    string      `json:"district"`
	Address     string      `json:"address"`
	Location    Coordinate  `json:"location"`
	Fuels       []FuelQuote `json:"fuels"`
	QueueStatus QueueStatus `json:"queueStatus"`
	LastUpdated time.Time   `json:"lastUpdated"`
	Amenities   []Amenity   `json:"amenities"`
	IsOpen      bool        `json:"isOpen"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"reviewCount"`
	// Distance from the viewer in km, nil until a viewer location is known.
	Distance *float64 `json:"distance,omitempty"`
}

// Clone returns a deep copy of the station.
func (s Station) Clone() Station {
	c := s
	c.Fuels = slices.Clone(s.Fuels)
	c.Amenities = slices.Clone(s.Amenities)
	if s.Distance != nil {
		d := *s.Distance
		c.Distance = &d
	}
	return c
}

// HasAmenity reports whether the station offers the amenity.
func (s *Station) HasAmenity(a Amenity) bool {
	return slices.Contains(s.Amenities, a)
}

// Quote returns the station's quote for the given fuel kind.
func (s *Station) Quote(kind FuelKind) (FuelQuote, bool) {
	for _, f := range s.Fuels {
		if f.Kind == kind {
			return f, true
		}
	}
	return FuelQuote{}, false
}

// Trend is the direction of the latest market price change.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MarketRate is a region independent reference price for one fuel kind.
type MarketRate struct {
	Kind        FuelKind  `json:"type"`
	Price       int64     `json:"price"`
	Change      int64     `json:"change"`
	Trend       Trend     `json:"trend"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Snapshot is an immutable copy of the fleet at a point in time.
type Snapshot struct {
	Version  uint64       `json:"version"`
	Stations []Station    `json:"stations"`
	Rates    []MarketRate `json:"rates"`
}

// CloneStations deep copies a station slice.
func CloneStations(in []Station) []Station {
	if in == nil {
		return nil
	}
	out := make([]Station, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
