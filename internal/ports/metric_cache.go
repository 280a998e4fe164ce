package ports

import (
	"context"

	"github.com/sharooque7/logistic/internal/domain"
)

// Optional read-through cache in front of stored route metrics.
type MetricCache interface {
	// Return the cached metric and whether it was present.
	Get(ctx context.Context, routeID string) (domain.RouteMetric, bool, error)
	Set(ctx context.Context, metric domain.RouteMetric) error
}
