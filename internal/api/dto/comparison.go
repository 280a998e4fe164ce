package dto

import (
	"time"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/services"
)

type PlannedStopResponse struct {
	StopCode        string  `json:"stop_code"`
	PlannedSequence int     `json:"planned_sequence"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	ZoneID          *string `json:"zone_id"`
	Type            string  `json:"type"`
}

type ActualRouteStopResponse struct {
	StopCode       string  `json:"stop_code"`
	ActualSequence int     `json:"actual_sequence"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ZoneID         *string `json:"zone_id"`
	Type           string  `json:"type"`
}

type PlannedRouteResponse struct {
	Route        RouteResponse         `json:"route"`
	PlannedRoute []PlannedStopResponse `json:"planned_route"`
}

type MetricResponse struct {
	RouteID           string     `json:"route_id"`
	TotalPlannedKM    float64    `json:"total_planned_distance_km"`
	TotalActualKM     float64    `json:"total_actual_distance_km"`
	DeltaKM           float64    `json:"distance_delta_km"`
	DeltaPercent      float64    `json:"distance_delta_percent"`
	OrderMatchedStops int        `json:"order_matched_stops"`
	OrderMatchPercent float64    `json:"order_match_percentage"`
	PrefixMatchCount  int        `json:"prefix_match_count"`
	TotalStops        int        `json:"total_stops"`
	GeneratedAt       *time.Time `json:"generated_at,omitempty"`
}

type RouteMetricResponse struct {
	Route   RouteResponse  `json:"route"`
	Metrics MetricResponse `json:"metrics"`
}

type ComparisonResponse struct {
	Route           RouteResponse             `json:"route"`
	PlannedRoute    []PlannedStopResponse     `json:"planned_route"`
	ActualRoute     []ActualRouteStopResponse `json:"actual_route"`
	Metrics         MetricResponse            `json:"metrics"`
	PlannedPolyline string                    `json:"planned_polyline"`
	ActualPolyline  string                    `json:"actual_polyline"`
}

func NewPlannedStops(planned []domain.RouteStop) []PlannedStopResponse {
	out := make([]PlannedStopResponse, 0, len(planned))
	for _, s := range planned {
		out = append(out, PlannedStopResponse{
			StopCode:        s.StopCode,
			PlannedSequence: s.Sequence,
			Lat:             s.Lat,
			Lng:             s.Lng,
			ZoneID:          s.ZoneID,
			Type:            s.Type,
		})
	}
	return out
}

func NewActualStops(actual []domain.RouteStop) []ActualRouteStopResponse {
	out := make([]ActualRouteStopResponse, 0, len(actual))
	for _, s := range actual {
		out = append(out, ActualRouteStopResponse{
			StopCode:       s.StopCode,
			ActualSequence: s.Sequence,
			Lat:            s.Lat,
			Lng:            s.Lng,
			ZoneID:         s.ZoneID,
			Type:           s.Type,
		})
	}
	return out
}

func NewMetricResponse(m domain.RouteMetric) MetricResponse {
	res := MetricResponse{
		RouteID:           m.RouteID,
		TotalPlannedKM:    m.TotalPlannedKM,
		TotalActualKM:     m.TotalActualKM,
		DeltaKM:           m.DeltaKM,
		DeltaPercent:      m.DeltaPercent,
		OrderMatchedStops: m.OrderMatchedStops,
		OrderMatchPercent: m.OrderMatchPercent,
		PrefixMatchCount:  m.PrefixMatchCount,
		TotalStops:        m.TotalStops,
	}
	if !m.GeneratedAt.IsZero() {
		t := m.GeneratedAt.UTC()
		res.GeneratedAt = &t
	}
	return res
}

func NewComparisonResponse(c *services.Comparison) ComparisonResponse {
	return ComparisonResponse{
		Route:           NewRouteResponse(c.Route),
		PlannedRoute:    NewPlannedStops(c.Planned),
		ActualRoute:     NewActualStops(c.Actual),
		Metrics:         NewMetricResponse(c.Metric),
		PlannedPolyline: c.PlannedPolyline,
		ActualPolyline:  c.ActualPolyline,
	}
}
