package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/ports"
)

// Comparison is the planned and actual ordering of one route and the metrics derived from them.
// Polylines are Google encoded [lat, lng] paths for map rendering.
type Comparison struct {
	Route           domain.Route
	Planned         []domain.RouteStop
	Actual          []domain.RouteStop
	Metric          domain.RouteMetric
	PlannedPolyline string
	ActualPolyline  string
}

// RouteService coordinates repository access with the planner and comparator.
type RouteService struct {
	repo   ports.RouteRepository
	cache  ports.MetricCache
	policy StationPolicy
}

// NewRouteService wires a RouteService. cache may be nil to disable metric caching.
func NewRouteService(repo ports.RouteRepository, cache ports.MetricCache, policy StationPolicy) *RouteService {
	if policy == "" {
		policy = StationPolicyReject
	}
	return &RouteService{repo: repo, cache: cache, policy: policy}
}

func (s *RouteService) ListRoutes(ctx context.Context, skip, limit int) ([]domain.Route, error) {
	routes, err := s.repo.ListRoutes(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

func (s *RouteService) ListAllRoutes(ctx context.Context) ([]domain.Route, error) {
	routes, err := s.repo.ListAllRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all routes: %w", err)
	}
	return routes, nil
}

func (s *RouteService) Totals(ctx context.Context) (domain.Totals, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("route totals: %w", err)
	}
	return totals, nil
}

func (s *RouteService) GetRoute(ctx context.Context, routeID string) (domain.Route, error) {
	route, err := s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route %q: %w", routeID, err)
	}
	return route, nil
}

func (s *RouteService) ListStops(ctx context.Context, routeID string) ([]domain.Stop, error) {
	stops, err := s.repo.ListStops(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("list stops for route %q: %w", routeID, err)
	}
	return stops, nil
}

func (s *RouteService) ListActualSequence(ctx context.Context, routeID string) ([]domain.SequenceEntry, error) {
	seq, err := s.repo.ListActualSequence(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("list actual sequence for route %q: %w", routeID, err)
	}
	return seq, nil
}

// GeneratePlannedRoute plans the route from its stored stops and persists the ordering.
// Re-running it for the same route does not duplicate stored rows.
func (s *RouteService) GeneratePlannedRoute(ctx context.Context, routeID string) (domain.Route, []domain.RouteStop, error) {
	route, err := s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return domain.Route{}, nil, fmt.Errorf("generate planned route %q: %w", routeID, err)
	}

	stops, err := s.repo.ListStops(ctx, routeID)
	if err != nil {
		return domain.Route{}, nil, fmt.Errorf("generate planned route %q: list stops: %w", routeID, err)
	}
	if len(stops) == 0 {
		return domain.Route{}, nil, fmt.Errorf("generate planned route %q: %w", routeID, domain.ErrNoStops)
	}

	planned, err := PlanRoute(stops, s.policy)
	if err != nil {
		return domain.Route{}, nil, fmt.Errorf("generate planned route %q: %w", routeID, err)
	}

	if err := s.repo.SavePlannedRoute(ctx, routeID, planned); err != nil {
		return domain.Route{}, nil, fmt.Errorf("generate planned route %q: save: %w", routeID, err)
	}

	return route, planned, nil
}

func (s *RouteService) GetPlannedRoute(ctx context.Context, routeID string) ([]domain.RouteStop, error) {
	if _, err := s.repo.GetRoute(ctx, routeID); err != nil {
		return nil, fmt.Errorf("get planned route %q: %w", routeID, err)
	}

	planned, err := s.repo.GetPlannedRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("get planned route %q: %w", routeID, err)
	}
	return planned, nil
}

// CompareRoute computes metrics for the stored planned and actual orderings and upserts them.
// Missing orderings compare as empty and yield neutral metrics.
func (s *RouteService) CompareRoute(ctx context.Context, routeID string) (*Comparison, error) {
	route, err := s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("compare route %q: %w", routeID, err)
	}

	var planned, actual []domain.RouteStop

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		planned, e = s.repo.GetPlannedRoute(gctx, routeID)
		if e != nil {
			return fmt.Errorf("load planned route: %w", e)
		}
		return nil
	})
	g.Go(func() error {
		var e error
		actual, e = s.repo.GetActualRoute(gctx, routeID)
		if e != nil {
			return fmt.Errorf("load actual route: %w", e)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compare route %q: %w", routeID, err)
	}

	metric, err := s.repo.SaveRouteMetric(ctx, BuildRouteMetric(routeID, planned, actual))
	if err != nil {
		return nil, fmt.Errorf("compare route %q: save metric: %w", routeID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metric); err != nil {
			zap.L().Warn("metric cache write failed", zap.String("route_id", routeID), zap.Error(err))
		}
	}

	return &Comparison{
		Route:           route,
		Planned:         planned,
		Actual:          actual,
		Metric:          metric,
		PlannedPolyline: encodePolyline(planned),
		ActualPolyline:  encodePolyline(actual),
	}, nil
}

// GetMetric returns the last computed metric for a route, preferring the cache.
func (s *RouteService) GetMetric(ctx context.Context, routeID string) (domain.Route, domain.RouteMetric, error) {
	route, err := s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return domain.Route{}, domain.RouteMetric{}, fmt.Errorf("get metric %q: %w", routeID, err)
	}

	if s.cache != nil {
		m, ok, err := s.cache.Get(ctx, routeID)
		if err != nil {
			zap.L().Warn("metric cache read failed", zap.String("route_id", routeID), zap.Error(err))
		} else if ok {
			return route, m, nil
		}
	}

	m, err := s.repo.GetRouteMetric(ctx, routeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Route{}, domain.RouteMetric{}, fmt.Errorf("get metric %q: %w", routeID, domain.ErrMetricsNotFound)
		}
		return domain.Route{}, domain.RouteMetric{}, fmt.Errorf("get metric %q: %w", routeID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, m); err != nil {
			zap.L().Warn("metric cache write failed", zap.String("route_id", routeID), zap.Error(err))
		}
	}

	return route, m, nil
}

func encodePolyline(stops []domain.RouteStop) string {
	if len(stops) == 0 {
		return ""
	}
	coords := make([][]float64, 0, len(stops))
	for _, st := range stops {
		coords = append(coords, st.Coordinates().CoordsToList())
	}
	return string(polyline.EncodeCoords(coords))
}
