// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/rubiojr/zapravka/pkg/api"
	"github.com/tkrajina/gpxgo/gpx"
)

const (
	EarthRadiusKm = 6371.0
	metersPerKm   = 1000.0
)

// DistanceKm returns the haversine distance between a and b in kilometers.
func DistanceKm(a, b api.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*sinLng*sinLng
	// rounding can push h slightly above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether point lies within radiusKm of center.
func WithinRadius(center, point api.Coordinate, radiusKm float64) bool {
	d := gpx.Distance2D(center.Lat, center.Lng, point.Lat, point.Lng, true)
	return d <= radiusKm*metersPerKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
