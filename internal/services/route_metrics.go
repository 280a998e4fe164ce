package services

import (
	"math"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/geo"
)

// prefixMatchCap bounds how far the matching prefix is walked.
const prefixMatchCap = 10

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalRouteDistance sums the haversine legs between consecutive stops, in km rounded to 2 places.
func TotalRouteDistance(stops []domain.RouteStop) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		prev, cur := stops[i-1], stops[i]
		total += geo.Haversine(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	return round2(total)
}

// OrderMatchPercentage counts positions where both orderings hold the same stop code,
// over the length of the shorter ordering.
func OrderMatchPercentage(planned, actual []domain.RouteStop) (int, float64) {
	length := min(len(planned), len(actual))
	if length == 0 {
		return 0, 0
	}

	matches := 0
	for i := 0; i < length; i++ {
		if planned[i].StopCode == actual[i].StopCode {
			matches++
		}
	}

	return matches, round2(float64(matches) / float64(length) * 100)
}

// PrefixMatchCount returns the length of the leading run where both orderings agree,
// walking at most ten positions.
func PrefixMatchCount(planned, actual []domain.RouteStop) int {
	return prefixMatch(planned, actual, prefixMatchCap)
}

func prefixMatch(planned, actual []domain.RouteStop, limit int) int {
	length := min(len(planned), len(actual), limit)

	n := 0
	for n < length && planned[n].StopCode == actual[n].StopCode {
		n++
	}
	return n
}

// BuildRouteMetric derives the full comparison record for one route.
// Delta values use the already rounded distances; a zero actual distance yields a zero percentage.
func BuildRouteMetric(routeID string, planned, actual []domain.RouteStop) domain.RouteMetric {
	plannedKM := TotalRouteDistance(planned)
	actualKM := TotalRouteDistance(actual)
	matched, matchPct := OrderMatchPercentage(planned, actual)

	deltaPct := 0.0
	if actualKM != 0 {
		deltaPct = round2((plannedKM - actualKM) / actualKM * 100)
	}

	return domain.RouteMetric{
		RouteID:           routeID,
		TotalPlannedKM:    plannedKM,
		TotalActualKM:     actualKM,
		DeltaKM:           round2(plannedKM - actualKM),
		DeltaPercent:      deltaPct,
		OrderMatchedStops: matched,
		OrderMatchPercent: matchPct,
		PrefixMatchCount:  PrefixMatchCount(planned, actual),
		TotalStops:        len(planned),
	}
}
