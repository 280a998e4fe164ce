package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharooque7/logistic/internal/adapters/repositories"
)

// Stops appear out of code order on disk.
const unsortedRoutes = `{
  "SEED_R1": {
    "station_code": "DLA7",
    "stops": {
      "ZZ": {"lat": 0, "lng": 3, "type": "Dropoff"},
      "MM": {"lat": 0, "lng": 2, "type": "Dropoff"},
      "AA": {"lat": 0, "lng": 0, "type": "Station"},
      "BB": {"lat": 0, "lng": 1, "type": "Dropoff"}
    }
  }
}`

func TestSeedRoutesFromJSON_InsertsStopsInCodeOrder(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	report, err := repositories.SeedRoutesFromJSON(ctx, tx, writeFile(t, "routes.json", unsortedRoutes))
	require.NoError(t, err)
	assert.Equal(t, repositories.SeedReport{Routes: 1, Stops: 4}, report)

	stops, err := repositories.NewPostgresRouteRepository(tx).ListStops(ctx, "SEED_R1")
	require.NoError(t, err)
	got := make([]string, 0, len(stops))
	for _, s := range stops {
		got = append(got, s.Code)
	}
	assert.Equal(t, []string{"AA", "BB", "MM", "ZZ"}, got)
}

func TestSeedRoutesFromJSON_Idempotent(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	repo := repositories.NewPostgresRouteRepository(tx)
	path := writeFile(t, "routes.json", unsortedRoutes)

	_, err := repositories.SeedRoutesFromJSON(ctx, tx, path)
	require.NoError(t, err)
	before, err := repo.Totals(ctx)
	require.NoError(t, err)
	firstStops, err := repo.ListStops(ctx, "SEED_R1")
	require.NoError(t, err)

	_, err = repositories.SeedRoutesFromJSON(ctx, tx, path)
	require.NoError(t, err)
	after, err := repo.Totals(ctx)
	require.NoError(t, err)
	secondStops, err := repo.ListStops(ctx, "SEED_R1")
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, firstStops, secondStops)
}

func TestSeedRoutesFromJSON_InvalidFileInsertsNothing(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	doc := `{
	  "SEED_OK": {"station_code": "S", "stops": {"A": {"lat": 0, "lng": 0, "type": "Station"}}},
	  "SEED_BAD": {"station_code": "S", "stops": {"A": {"lat": 95, "lng": 0, "type": "Station"}}}
	}`

	_, err := repositories.SeedRoutesFromJSON(ctx, tx, writeFile(t, "routes.json", doc))
	require.Error(t, err)

	_, err = repositories.NewPostgresRouteRepository(tx).GetRoute(ctx, "SEED_OK")
	assert.Error(t, err)
}

func TestSeedActualFromJSON_SkipsUnknownAndUpdates(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	repo := repositories.NewPostgresRouteRepository(tx)

	_, err := repositories.SeedRoutesFromJSON(ctx, tx, writeFile(t, "routes.json", unsortedRoutes))
	require.NoError(t, err)

	report, err := repositories.SeedActualFromJSON(ctx, tx, writeFile(t, "actual.json", `{
	  "SEED_R1": {"actual": {"AA": 0, "ZZ": 1, "MM": 2, "BB": 3}},
	  "SEED_MISSING_A": {"actual": {"X": 0}},
	  "SEED_MISSING_B": {"actual": {"Y": 0}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Routes)
	assert.Equal(t, 4, report.Stops)
	assert.Equal(t, []string{"SEED_MISSING_A", "SEED_MISSING_B"}, report.Skipped)

	_, err = repositories.SeedActualFromJSON(ctx, tx, writeFile(t, "actual2.json", `{
	  "SEED_R1": {"actual": {"AA": 0, "BB": 1, "MM": 2, "ZZ": 3}}
	}`))
	require.NoError(t, err)

	actual, err := repo.GetActualRoute(ctx, "SEED_R1")
	require.NoError(t, err)
	got := make([]string, 0, len(actual))
	for _, s := range actual {
		got = append(got, s.StopCode)
	}
	assert.Equal(t, []string{"AA", "BB", "MM", "ZZ"}, got, "re-seeding overwrites recorded positions")
}

func TestSeedActualFromJSON_AllUnknown(t *testing.T) {
	tx := newTestTx(t)

	report, err := repositories.SeedActualFromJSON(context.Background(), tx,
		writeFile(t, "actual.json", `{"SEED_NOPE": {"actual": {"A": 0}}}`))

	require.NoError(t, err)
	assert.Equal(t, 0, report.Routes)
	assert.Equal(t, []string{"SEED_NOPE"}, report.Skipped)
}
