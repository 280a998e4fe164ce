package ports

import (
	"context"

	"github.com/sharooque7/logistic/internal/domain"
)

// Port: a boundary for reading routes and stops and persisting planning and comparison output.
type RouteRepository interface {
	// List one page of routes with their stop counts.
	ListRoutes(ctx context.Context, offset, limit int) ([]domain.Route, error)
	// List every route with its stop count.
	ListAllRoutes(ctx context.Context) ([]domain.Route, error)
	Totals(ctx context.Context) (domain.Totals, error)

	// Return domain.ErrNotFound when the route does not exist.
	GetRoute(ctx context.Context, routeID string) (domain.Route, error)
	// Stops in ingestion order. This order drives planner tie-breaks.
	ListStops(ctx context.Context, routeID string) ([]domain.Stop, error)
	ListActualSequence(ctx context.Context, routeID string) ([]domain.SequenceEntry, error)

	// Insert planned positions keyed by (route_id, stop_code); existing rows are left untouched.
	SavePlannedRoute(ctx context.Context, routeID string, planned []domain.RouteStop) error
	GetPlannedRoute(ctx context.Context, routeID string) ([]domain.RouteStop, error)
	GetActualRoute(ctx context.Context, routeID string) ([]domain.RouteStop, error)

	// Upsert the metric keyed by route and return it with its fresh GeneratedAt.
	SaveRouteMetric(ctx context.Context, metric domain.RouteMetric) (domain.RouteMetric, error)
	// Return domain.ErrNotFound when metrics were never computed.
	GetRouteMetric(ctx context.Context, routeID string) (domain.RouteMetric, error)
}
