// Package geo holds the small geodesy and data-normalization helpers shared
// by the stats cache, the local store, and the browse UI: great-circle
// distance, the coarse location grid used for cache keys, and the area and
// ownership cleanup rules carried over from the production data pipeline.
package geo

import (
	"fmt"
	"math"
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

const earthRadiusKM = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers, via the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// GridKey buckets a coordinate onto a 0.01-degree grid, roughly one
// kilometer at London's latitude. Nearby positions share a key, which is
// what makes it usable as a stats-cache key.
func GridKey(p Point) string {
	return fmt.Sprintf("%.2f,%.2f", p.Lat, p.Lon)
}
