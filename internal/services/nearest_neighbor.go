package services

import (
	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/geo"
)

// NearestNeighborRoute orders dropoffs with a greedy nearest-neighbor walk from the station.
//
// At each step the unvisited dropoff with the smallest haversine distance from the
// current stop is chosen. Ties go to the dropoff that appears first in the input
// slice, so the result depends only on input order and is reproducible.
// The station is returned first with sequence 0, dropoffs follow at 1..n.
// Inputs are not modified.
func NearestNeighborRoute(station domain.Stop, dropoffs []domain.Stop) []domain.RouteStop {
	route := make([]domain.RouteStop, 0, len(dropoffs)+1)
	route = append(route, toRouteStop(station, 0))

	// Candidate pool as an arena: dropoffs stay in place and are marked once visited.
	visited := make([]bool, len(dropoffs))
	current := station

	for seq := 1; seq <= len(dropoffs); seq++ {
		best := -1
		bestDist := 0.0

		for i, d := range dropoffs {
			if visited[i] {
				continue
			}
			dist := geo.Haversine(current.Lat, current.Lng, d.Lat, d.Lng)
			// Strict comparison keeps the earliest index on ties.
			if best == -1 || dist < bestDist {
				best = i
				bestDist = dist
			}
		}

		visited[best] = true
		current = dropoffs[best]
		route = append(route, toRouteStop(current, seq))
	}

	return route
}

func toRouteStop(s domain.Stop, seq int) domain.RouteStop {
	return domain.RouteStop{
		StopCode: s.Code,
		Sequence: seq,
		Lat:      s.Lat,
		Lng:      s.Lng,
		ZoneID:   s.ZoneID,
		Type:     s.Type,
	}
}
