package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharooque7/logistic/internal/domain"
)

func ordering(codes ...string) []domain.RouteStop {
	out := make([]domain.RouteStop, 0, len(codes))
	for i, c := range codes {
		out = append(out, domain.RouteStop{StopCode: c, Sequence: i, Lat: 0, Lng: float64(i)})
	}
	return out
}

func TestTotalRouteDistance_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, TotalRouteDistance(nil))
	assert.Equal(t, 0.0, TotalRouteDistance(ordering("S")))
}

func TestTotalRouteDistance_RoundsToTwoPlaces(t *testing.T) {
	// Two one-degree legs along the equator: 2 * 111.19492664 km.
	assert.Equal(t, 222.39, TotalRouteDistance(ordering("S", "A", "B")))
}

func TestOrderMatchPercentage(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		n, pct := OrderMatchPercentage(ordering("S", "A", "B", "C"), ordering("S", "A", "B", "C"))
		assert.Equal(t, 4, n)
		assert.Equal(t, 100.0, pct)
	})

	t.Run("no position agrees", func(t *testing.T) {
		n, pct := OrderMatchPercentage(ordering("S", "A", "B"), ordering("A", "B", "S"))
		assert.Equal(t, 0, n)
		assert.Equal(t, 0.0, pct)
	})

	t.Run("empty side", func(t *testing.T) {
		n, pct := OrderMatchPercentage(ordering("S", "A"), nil)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0.0, pct)

		n, pct = OrderMatchPercentage(nil, nil)
		assert.Equal(t, 0, n)
		assert.Equal(t, 0.0, pct)
	})

	t.Run("positional over shorter length", func(t *testing.T) {
		// S and B agree at index 0 and 2; length is 3.
		n, pct := OrderMatchPercentage(ordering("S", "A", "B", "C"), ordering("S", "C", "B"))
		assert.Equal(t, 2, n)
		assert.Equal(t, 66.67, pct)
	})
}

func TestPrefixMatchCount(t *testing.T) {
	planned := ordering("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K")

	t.Run("stops at first mismatch", func(t *testing.T) {
		actual := ordering("A", "B", "C", "X", "E", "F", "G", "H", "I", "J", "K")
		assert.Equal(t, 3, PrefixMatchCount(planned, actual))
	})

	t.Run("capped at ten", func(t *testing.T) {
		assert.Equal(t, 10, PrefixMatchCount(planned, planned))
	})

	t.Run("bounded by shorter ordering", func(t *testing.T) {
		assert.Equal(t, 2, PrefixMatchCount(planned, ordering("A", "B")))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, PrefixMatchCount(nil, planned))
	})
}

func TestBuildRouteMetric(t *testing.T) {
	planned := ordering("S", "A", "B")
	actual := []domain.RouteStop{
		{StopCode: "S", Lat: 0, Lng: 0},
		{StopCode: "B", Lat: 0, Lng: 2},
		{StopCode: "A", Lat: 0, Lng: 1},
	}

	m := BuildRouteMetric("R1", planned, actual)

	require.Equal(t, "R1", m.RouteID)
	assert.Equal(t, 222.39, m.TotalPlannedKM)
	assert.Equal(t, 333.58, m.TotalActualKM)
	assert.Equal(t, -111.19, m.DeltaKM)
	assert.Equal(t, -33.33, m.DeltaPercent)
	assert.Equal(t, 1, m.OrderMatchedStops)
	assert.Equal(t, 33.33, m.OrderMatchPercent)
	assert.Equal(t, 1, m.PrefixMatchCount)
	assert.Equal(t, 3, m.TotalStops)
}

func TestBuildRouteMetric_ZeroActualDistance(t *testing.T) {
	m := BuildRouteMetric("R1", ordering("S", "A"), ordering("S"))

	assert.Equal(t, 111.19, m.TotalPlannedKM)
	assert.Equal(t, 0.0, m.TotalActualKM)
	assert.Equal(t, 111.19, m.DeltaKM)
	assert.Equal(t, 0.0, m.DeltaPercent)
	assert.Equal(t, 2, m.TotalStops)
}

func TestBuildRouteMetric_Empty(t *testing.T) {
	m := BuildRouteMetric("R1", nil, nil)

	assert.Equal(t, domain.RouteMetric{RouteID: "R1"}, m)
}
