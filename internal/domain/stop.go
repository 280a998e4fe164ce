package domain

import "strings"

// StopTypeStation tags the depot a route starts from. Every other type is a dropoff.
const StopTypeStation = "station"

// Represents a single stop belonging to one route.
// Code is unique within the route. Stops are read-only inputs to planning and comparison.
type Stop struct {
	Code   string
	Lat    float64
	Lng    float64
	Type   string
	ZoneID *string
}

// IsStation reports whether the stop is the route's depot. Matching is case-insensitive.
func (s Stop) IsStation() bool {
	return strings.EqualFold(strings.TrimSpace(s.Type), StopTypeStation)
}

// SequenceEntry is a recorded (stop_code, sequence) pair without coordinates.
type SequenceEntry struct {
	StopCode string
	Sequence int
}
