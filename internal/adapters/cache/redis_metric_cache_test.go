package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharooque7/logistic/internal/adapters/cache"
	"github.com/sharooque7/logistic/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*cache.RedisMetricCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisMetricCache(client, ttl), mr
}

func TestRedisMetricCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	in := domain.RouteMetric{
		RouteID:           "R1",
		TotalPlannedKM:    222.39,
		TotalActualKM:     333.58,
		DeltaKM:           -111.19,
		DeltaPercent:      -33.33,
		OrderMatchedStops: 1,
		OrderMatchPercent: 33.33,
		PrefixMatchCount:  1,
		TotalStops:        3,
		GeneratedAt:       time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}

	require.NoError(t, c.Set(ctx, in))
	assert.True(t, mr.Exists("route_metrics:R1"))

	got, ok, err := c.Get(ctx, "R1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.TotalStops, got.TotalStops)
	assert.Equal(t, in.DeltaPercent, got.DeltaPercent)
	assert.True(t, in.GeneratedAt.Equal(got.GeneratedAt))
}

func TestRedisMetricCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	_, ok, err := c.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisMetricCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, domain.RouteMetric{RouteID: "R1"}))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "R1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisMetricCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("route_metrics:R1", "{not json"))

	_, _, err := c.Get(context.Background(), "R1")

	assert.Error(t, err)
}

func TestRedisMetricCache_RejectsEmptyRouteID(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	assert.Error(t, c.Set(context.Background(), domain.RouteMetric{}))
}
