package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/sharooque7/logistic/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(svc handlers.RouteServicer, allowedOrigins []string, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.L()
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler)

	rh := handlers.NewRouteHandler(svc)

	r.Get("/health", handlers.Health)

	r.Route("/api/v1/routes", func(r chi.Router) {
		r.Get("/", rh.List)
		r.Get("/all", rh.ListAll)
		r.Get("/total_routes_and_stops", rh.Totals)

		r.Route("/{route_id}", func(r chi.Router) {
			r.Get("/", rh.Get)
			r.Get("/stops", rh.Stops)
			r.Get("/actual", rh.Actual)
			r.Get("/planned", rh.Planned)
			r.Post("/generate/planned_routes", rh.GeneratePlanned)
			r.Get("/comparison", rh.Comparison)
			r.Get("/metrics", rh.Metrics)
		})
	})

	return r
}
