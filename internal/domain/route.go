package domain

import "time"

// Represents one position in an ordering of a route's stops.
// The same shape carries both planned and actual orderings; Sequence is the
// planned_sequence or actual_sequence respectively.
type RouteStop struct {
	StopCode string
	Sequence int
	Lat      float64
	Lng      float64
	ZoneID   *string
	Type     string
}

func (s RouteStop) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lng: s.Lng}
}

// Represents route metadata as ingested from field data.
// StopCount is only populated by list queries.
type Route struct {
	RouteID             string
	StationCode         string
	Date                time.Time
	DepartureTimeUTC    string
	ExecutorCapacityCM3 float64
	RouteScore          string
	StopCount           int
}

// Totals summarises the whole data set.
type Totals struct {
	RouteCount int
	StopCount  int
}
