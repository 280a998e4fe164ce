package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sharooque7/logistic/internal/domain"
	"github.com/sharooque7/logistic/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to HTTP statuses. Unknown errors are logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMetricsNotFound):
		writeError(w, r, http.StatusNotFound, "metrics not found for route")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
	case errors.Is(err, domain.ErrNoStops):
		writeError(w, r, http.StatusNotFound, "no stops found for route")
	case errors.Is(err, domain.ErrMissingStation):
		writeError(w, r, http.StatusUnprocessableEntity, "cannot plan route: "+domain.ErrMissingStation.Error())
	case errors.Is(err, domain.ErrMultipleStations):
		writeError(w, r, http.StatusUnprocessableEntity, "cannot plan route: "+domain.ErrMultipleStations.Error())
	default:
		zap.L().Error("request failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
