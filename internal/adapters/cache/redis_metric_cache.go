package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/platform/obs"
)

const keyPrefix = "route_metrics:"

// RedisMetricCache keeps the last computed metric per route as JSON with a TTL.
type RedisMetricCache struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

func NewRedisMetricCache(client redis.UniversalClient, ttl time.Duration) *RedisMetricCache {
	return &RedisMetricCache{Client: client, TTL: ttl}
}

type cachedMetric struct {
	RouteID           string    `json:"route_id"`
	TotalPlannedKM    float64   `json:"total_planned_distance_km"`
	TotalActualKM     float64   `json:"total_actual_distance_km"`
	DeltaKM           float64   `json:"distance_delta_km"`
	DeltaPercent      float64   `json:"distance_delta_percent"`
	OrderMatchedStops int       `json:"order_matched_stops"`
	OrderMatchPercent float64   `json:"order_match_percentage"`
	PrefixMatchCount  int       `json:"prefix_match_count"`
	TotalStops        int       `json:"total_stops"`
	GeneratedAt       time.Time `json:"generated_at"`
}

func metricKey(routeID string) string { return keyPrefix + routeID }

// Get returns false without error on a miss.
func (c *RedisMetricCache) Get(ctx context.Context, routeID string) (_ domain.RouteMetric, _ bool, err error) {
	defer obs.Time(ctx, "metric.cache.Get")(&err)

	if c.Client == nil {
		return domain.RouteMetric{}, false, errors.New("metric cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, metricKey(routeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RouteMetric{}, false, nil
	}
	if err != nil {
		return domain.RouteMetric{}, false, fmt.Errorf("get metric cache: %w", err)
	}

	var m cachedMetric
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.RouteMetric{}, false, fmt.Errorf("get metric cache: decode %q: %w", routeID, err)
	}

	return domain.RouteMetric{
		RouteID:           m.RouteID,
		TotalPlannedKM:    m.TotalPlannedKM,
		TotalActualKM:     m.TotalActualKM,
		DeltaKM:           m.DeltaKM,
		DeltaPercent:      m.DeltaPercent,
		OrderMatchedStops: m.OrderMatchedStops,
		OrderMatchPercent: m.OrderMatchPercent,
		PrefixMatchCount:  m.PrefixMatchCount,
		TotalStops:        m.TotalStops,
		GeneratedAt:       m.GeneratedAt,
	}, true, nil
}

func (c *RedisMetricCache) Set(ctx context.Context, metric domain.RouteMetric) (err error) {
	defer obs.Time(ctx, "metric.cache.Set")(&err)

	if c.Client == nil {
		return errors.New("metric cache: client is nil")
	}
	if metric.RouteID == "" {
		return errors.New("set metric cache: route id must not be empty")
	}

	raw, err := json.Marshal(cachedMetric{
		RouteID:           metric.RouteID,
		TotalPlannedKM:    metric.TotalPlannedKM,
		TotalActualKM:     metric.TotalActualKM,
		DeltaKM:           metric.DeltaKM,
		DeltaPercent:      metric.DeltaPercent,
		OrderMatchedStops: metric.OrderMatchedStops,
		OrderMatchPercent: metric.OrderMatchPercent,
		PrefixMatchCount:  metric.PrefixMatchCount,
		TotalStops:        metric.TotalStops,
		GeneratedAt:       metric.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("set metric cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, metricKey(metric.RouteID), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("set metric cache: %w", err)
	}
	return nil
}
