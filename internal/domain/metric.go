package domain

import "time"

// Represents the planned-versus-actual comparison of a single route.
// A RouteMetric has no identity beyond its route; recomputation overwrites it.
type RouteMetric struct {
	RouteID           string
	TotalPlannedKM    float64
	TotalActualKM     float64
	DeltaKM           float64
	DeltaPercent      float64
	OrderMatchedStops int
	OrderMatchPercent float64
	PrefixMatchCount  int
	TotalStops        int
	GeneratedAt       time.Time
}
