package services

import (
	"fmt"
	"strings"

	"github.com/sharooque7/logistic/internal/domain"
)

// StationPolicy decides what happens when a stop set carries more than one station.
type StationPolicy string

const (
	// StationPolicyReject fails planning with domain.ErrMultipleStations.
	StationPolicyReject StationPolicy = "reject"
	// StationPolicyFirst plans from the first station in input order; later stations
	// are routed as ordinary stops.
	StationPolicyFirst StationPolicy = "first"
)

// ParseStationPolicy maps a configuration value to a StationPolicy.
func ParseStationPolicy(s string) (StationPolicy, error) {
	switch p := StationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case StationPolicyReject, StationPolicyFirst:
		return p, nil
	default:
		return "", fmt.Errorf("parse station policy: unknown value %q (want %q or %q)", s, StationPolicyReject, StationPolicyFirst)
	}
}

// SeparateStation partitions a stop set into its station and dropoffs, keeping input order.
func SeparateStation(stops []domain.Stop, policy StationPolicy) (domain.Stop, []domain.Stop, error) {
	stationIdx := -1
	dropoffs := make([]domain.Stop, 0, len(stops))

	for i, s := range stops {
		if !s.IsStation() {
			dropoffs = append(dropoffs, s)
			continue
		}
		if stationIdx == -1 {
			stationIdx = i
			continue
		}
		if policy != StationPolicyFirst {
			return domain.Stop{}, nil, fmt.Errorf(
				"separate station: %q and %q: %w",
				stops[stationIdx].Code, s.Code, domain.ErrMultipleStations,
			)
		}
		dropoffs = append(dropoffs, s)
	}

	if stationIdx == -1 {
		return domain.Stop{}, nil, domain.ErrMissingStation
	}

	return stops[stationIdx], dropoffs, nil
}

// PlanRoute builds the planned ordering for one route's stop set.
func PlanRoute(stops []domain.Stop, policy StationPolicy) ([]domain.RouteStop, error) {
	station, dropoffs, err := SeparateStation(stops, policy)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	return NearestNeighborRoute(station, dropoffs), nil
}
