// Package geo holds the straight-line distance primitive shared by planning and comparison.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusKM = 6371.0

func degreeToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// Haversine returns the great-circle distance in km between two points given in decimal degrees.
// The central angle uses the atan2 form so that near-antipodal points stay inside the domain of sqrt.
// Inputs must be valid geographic coordinates; see ValidCoordinate.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreeToRadians(lat2 - lat1)
	dLon := degreeToRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(degreeToRadians(lat1))*math.Cos(degreeToRadians(lat2))*sinLon*sinLon
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// ValidCoordinate reports whether lat is within [-90, 90] and lng within [-180, 180].
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return s2.LatLngFromDegrees(lat, lng).IsValid()
}
