package dto

import (
	"time"

	"github.com/sharooque7/logistic/internal/domain"
)

type RouteResponse struct {
	RouteID             string  `json:"route_id"`
	StationCode         string  `json:"station_code"`
	Date                *string `json:"date_YYYY_MM_DD"`
	DepartureTimeUTC    string  `json:"departure_time_utc"`
	ExecutorCapacityCM3 float64 `json:"executor_capacity_cm3"`
	RouteScore          string  `json:"route_score"`
}

type RouteWithStopCountResponse struct {
	RouteResponse
	StopCount int `json:"stop_count"`
}

type TotalsResponse struct {
	RouteCount int `json:"route_count"`
	StopCount  int `json:"stop_count"`
}

type StopResponse struct {
	StopCode string  `json:"stop_code"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type"`
	ZoneID   *string `json:"zone_id"`
}

type ActualStopResponse struct {
	StopCode       string `json:"stop_code"`
	ActualSequence int    `json:"actual_sequence"`
}

func NewRouteResponse(r domain.Route) RouteResponse {
	res := RouteResponse{
		RouteID:             r.RouteID,
		StationCode:         r.StationCode,
		DepartureTimeUTC:    r.DepartureTimeUTC,
		ExecutorCapacityCM3: r.ExecutorCapacityCM3,
		RouteScore:          r.RouteScore,
	}
	if !r.Date.IsZero() {
		d := r.Date.Format(time.DateOnly)
		res.Date = &d
	}
	return res
}

func NewRouteListResponse(routes []domain.Route) []RouteWithStopCountResponse {
	out := make([]RouteWithStopCountResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, RouteWithStopCountResponse{RouteResponse: NewRouteResponse(r), StopCount: r.StopCount})
	}
	return out
}

func NewStopListResponse(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, StopResponse{StopCode: s.Code, Lat: s.Lat, Lng: s.Lng, Type: s.Type, ZoneID: s.ZoneID})
	}
	return out
}

func NewActualSequenceResponse(seq []domain.SequenceEntry) []ActualStopResponse {
	out := make([]ActualStopResponse, 0, len(seq))
	for _, e := range seq {
		out = append(out, ActualStopResponse{StopCode: e.StopCode, ActualSequence: e.Sequence})
	}
	return out
}
