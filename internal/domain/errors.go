package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a route or its metrics do not exist.
	ErrNotFound = errors.New("not found")

	// ErrMetricsNotFound is returned when a route exists but was never compared.
	// It matches ErrNotFound under errors.Is.
	ErrMetricsNotFound = fmt.Errorf("route metrics %w", ErrNotFound)

	// ErrNoStops is returned when a route exists but has no stop rows.
	ErrNoStops = errors.New("route has no stops")

	// ErrMissingStation is returned when no stop in the set has type "station".
	// Planning cannot produce a partial route.
	ErrMissingStation = errors.New("no station found in route")

	// ErrMultipleStations is returned when more than one station is present and
	// the station policy rejects ambiguous input.
	ErrMultipleStations = errors.New("more than one station found in route")
)
