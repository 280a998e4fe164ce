package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sharooque7/logistic/internal/api/dto"
	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/services"
)

// RouteServicer is the service surface the route handlers depend on.
type RouteServicer interface {
	ListRoutes(ctx context.Context, skip, limit int) ([]domain.Route, error)
	ListAllRoutes(ctx context.Context) ([]domain.Route, error)
	Totals(ctx context.Context) (domain.Totals, error)
	GetRoute(ctx context.Context, routeID string) (domain.Route, error)
	ListStops(ctx context.Context, routeID string) ([]domain.Stop, error)
	ListActualSequence(ctx context.Context, routeID string) ([]domain.SequenceEntry, error)
	GeneratePlannedRoute(ctx context.Context, routeID string) (domain.Route, []domain.RouteStop, error)
	GetPlannedRoute(ctx context.Context, routeID string) ([]domain.RouteStop, error)
	CompareRoute(ctx context.Context, routeID string) (*services.Comparison, error)
	GetMetric(ctx context.Context, routeID string) (domain.Route, domain.RouteMetric, error)
}

type RouteHandler struct {
	Service  RouteServicer
	validate *validator.Validate
}

func NewRouteHandler(svc RouteServicer) *RouteHandler {
	return &RouteHandler{Service: svc, validate: validator.New()}
}

type pageQuery struct {
	Skip  int `validate:"gte=0"`
	Limit int `validate:"gte=1,lte=100"`
}

func routeID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "route_id"))
}

// List serves one page of routes. Defaults are skip=0, limit=10.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := pageQuery{Skip: 0, Limit: 10}

	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "skip must be an integer")
			return
		}
		q.Skip = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, r, http.StatusBadRequest, "skip must be >= 0 and limit between 1 and 100")
		return
	}

	routes, err := h.Service.ListRoutes(r.Context(), q.Skip, q.Limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteListResponse(routes))
}

func (h *RouteHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Service.ListAllRoutes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteListResponse(routes))
}

func (h *RouteHandler) Totals(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.Totals(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TotalsResponse{RouteCount: t.RouteCount, StopCount: t.StopCount})
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	route, err := h.Service.GetRoute(r.Context(), routeID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(route))
}

func (h *RouteHandler) Stops(w http.ResponseWriter, r *http.Request) {
	id := routeID(r)
	if _, err := h.Service.GetRoute(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	stops, err := h.Service.ListStops(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewStopListResponse(stops))
}

func (h *RouteHandler) Actual(w http.ResponseWriter, r *http.Request) {
	id := routeID(r)
	if _, err := h.Service.GetRoute(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	seq, err := h.Service.ListActualSequence(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewActualSequenceResponse(seq))
}

func (h *RouteHandler) Planned(w http.ResponseWriter, r *http.Request) {
	planned, err := h.Service.GetPlannedRoute(r.Context(), routeID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewPlannedStops(planned))
}

// GeneratePlanned runs the nearest-neighbor planner for the route and stores the result.
func (h *RouteHandler) GeneratePlanned(w http.ResponseWriter, r *http.Request) {
	route, planned, err := h.Service.GeneratePlannedRoute(r.Context(), routeID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.PlannedRouteResponse{
		Route:        dto.NewRouteResponse(route),
		PlannedRoute: dto.NewPlannedStops(planned),
	})
}

// Comparison recomputes metrics from the stored orderings on every call.
func (h *RouteHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.Service.CompareRoute(r.Context(), routeID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewComparisonResponse(cmp))
}

func (h *RouteHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	route, m, err := h.Service.GetMetric(r.Context(), routeID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RouteMetricResponse{
		Route:   dto.NewRouteResponse(route),
		Metrics: dto.NewMetricResponse(m),
	})
}
