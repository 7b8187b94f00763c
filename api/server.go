/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  X-Request-Id passthrough or new UUID
  2. Logger:     Structured request logging (zerolog)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Metrics:    Latency histogram per route
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/contracts/*      Contract lifecycle and proration
  /api/tasks/*          Task time buckets
  /api/scenarios/*      Built-in fixtures
  /healthz              Liveness
  /metrics              Prometheus exposition

SECURITY NOTE:
  No authentication middleware. The service holds no data; every
  request carries its own records.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logger and metrics middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/rental-engine/config"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg config.HTTPConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestID)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/contracts", func(r chi.Router) {
			r.Post("/progress", h.ContractProgress)
			r.Get("/states", h.ListStates)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/buckets", h.TaskBuckets)
			r.Get("/buckets", h.ListBuckets)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/{id}", h.GetScenario)
		})
	})

	return r
}
