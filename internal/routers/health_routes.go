package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/phanicodella/talentsync/internal/handlers"
	"github.com/phanicodella/talentsync/internal/metrics"
)

func HealthRoutes(router *chi.Mux, handler *handlers.HealthHandler) {
	router.Get("/healthz", handler.LivenessHandler)
	router.Get("/readyz", handler.ReadinessHandler)
	router.Handle("/metrics", metrics.Handler())
}
