package repositories_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharooque7/logistic/internal/adapters/repositories"
	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/testutil"
)

// newTestTx opens a transaction that is rolled back when the test finishes.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const fixtureRoutes = `{
  "IT_R1": {
    "station_code": "DLA7",
    "date_YYYY_MM_DD": "2018-07-27",
    "departure_time_utc": "16:02:10",
    "executor_capacity_cm3": 3313071.0,
    "route_score": "High",
    "stops": {
      "S": {"lat": 0, "lng": 0, "type": "Station"},
      "A": {"lat": 0, "lng": 1, "type": "Dropoff", "zone_id": "Z-1"},
      "B": {"lat": 0, "lng": 2, "type": "Dropoff", "zone_id": "Z-1"}
    }
  }
}`

const fixtureActual = `{
  "IT_R1": {"actual": {"S": 0, "B": 1, "A": 2}},
  "IT_UNKNOWN": {"actual": {"X": 0}}
}`

// seedFixture loads one three-stop route with its actual sequence.
func seedFixture(t *testing.T, tx pgx.Tx) {
	t.Helper()
	ctx := context.Background()

	report, err := repositories.SeedRoutesFromJSON(ctx, tx, writeFile(t, "routes.json", fixtureRoutes))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Routes)
	assert.Equal(t, 3, report.Stops)

	report, err = repositories.SeedActualFromJSON(ctx, tx, writeFile(t, "actual.json", fixtureActual))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Routes)
	assert.Equal(t, []string{"IT_UNKNOWN"}, report.Skipped)
}

func TestPostgresRouteRepository_GetRoute(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)

	route, err := repo.GetRoute(context.Background(), "IT_R1")

	require.NoError(t, err)
	assert.Equal(t, "DLA7", route.StationCode)
	assert.Equal(t, "16:02:10", route.DepartureTimeUTC)
	assert.Equal(t, 3313071.0, route.ExecutorCapacityCM3)
	assert.Equal(t, "High", route.RouteScore)
	assert.Equal(t, 3, route.StopCount)
	assert.Equal(t, 2018, route.Date.Year())
}

func TestPostgresRouteRepository_GetRoute_NotFound(t *testing.T) {
	repo := repositories.NewPostgresRouteRepository(newTestTx(t))

	_, err := repo.GetRoute(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresRouteRepository_ListStopsInIngestionOrder(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)

	stops, err := repo.ListStops(context.Background(), "IT_R1")

	require.NoError(t, err)
	require.Len(t, stops, 3)
	assert.Equal(t, []string{"A", "B", "S"}, []string{stops[0].Code, stops[1].Code, stops[2].Code})
	assert.True(t, stops[2].IsStation())
	require.NotNil(t, stops[0].ZoneID)
	assert.Equal(t, "Z-1", *stops[0].ZoneID)
	assert.Nil(t, stops[2].ZoneID)
}

func TestPostgresRouteRepository_PlannedRouteIsWrittenOnce(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)
	ctx := context.Background()

	first := []domain.RouteStop{{StopCode: "S", Sequence: 0}, {StopCode: "A", Sequence: 1}, {StopCode: "B", Sequence: 2}}
	require.NoError(t, repo.SavePlannedRoute(ctx, "IT_R1", first))
	second := []domain.RouteStop{{StopCode: "S", Sequence: 0}, {StopCode: "B", Sequence: 1}, {StopCode: "A", Sequence: 2}}
	require.NoError(t, repo.SavePlannedRoute(ctx, "IT_R1", second))

	planned, err := repo.GetPlannedRoute(ctx, "IT_R1")

	require.NoError(t, err)
	require.Len(t, planned, 3)
	assert.Equal(t, "A", planned[1].StopCode, "existing rows are not overwritten")
	assert.Equal(t, 1.0, planned[1].Lng)
}

func TestPostgresRouteRepository_ActualRoute(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)
	ctx := context.Background()

	actual, err := repo.GetActualRoute(ctx, "IT_R1")
	require.NoError(t, err)
	require.Len(t, actual, 3)
	assert.Equal(t, []string{"S", "B", "A"}, []string{actual[0].StopCode, actual[1].StopCode, actual[2].StopCode})

	seq, err := repo.ListActualSequence(ctx, "IT_R1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SequenceEntry{
		{StopCode: "S", Sequence: 0},
		{StopCode: "B", Sequence: 1},
		{StopCode: "A", Sequence: 2},
	}, seq)
}

func TestPostgresRouteRepository_RouteMetricUpsert(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)
	ctx := context.Background()

	_, err := repo.GetRouteMetric(ctx, "IT_R1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	saved, err := repo.SaveRouteMetric(ctx, domain.RouteMetric{RouteID: "IT_R1", TotalPlannedKM: 1, TotalStops: 3})
	require.NoError(t, err)
	assert.False(t, saved.GeneratedAt.IsZero())

	_, err = repo.SaveRouteMetric(ctx, domain.RouteMetric{RouteID: "IT_R1", TotalPlannedKM: 2, TotalStops: 3})
	require.NoError(t, err)

	got, err := repo.GetRouteMetric(ctx, "IT_R1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.TotalPlannedKM)
}

func TestPostgresRouteRepository_ListAndTotals(t *testing.T) {
	tx := newTestTx(t)
	seedFixture(t, tx)
	repo := repositories.NewPostgresRouteRepository(tx)
	ctx := context.Background()

	all, err := repo.ListAllRoutes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	page, err := repo.ListRoutes(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	totals, err := repo.Totals(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, totals.RouteCount, 1)
	assert.GreaterOrEqual(t, totals.StopCount, 3)
}
