package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/phanicodella/talentsync/internal/handlers"
	"github.com/phanicodella/talentsync/internal/middleware"
	"github.com/phanicodella/talentsync/internal/models"
)

// InterviewRoutes wires the interview API. Path identifiers are shape-checked
// before any handler runs; bodies are decoded and validated by the generic
// middleware.
func InterviewRoutes(router *chi.Mux, handler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/interviews", func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/create", handler.CreateHandler)
		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", handler.SubmitAnswerHandler)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.RequireObjectID)
			r.Get("/", handler.GetHandler)
			r.Post("/end", handler.EndHandler)
			r.Post("/export-pdf", handler.ExportPDFHandler)
			r.With(middleware.ValidateRequest[*models.ShareRequest]()).Post("/share", handler.ShareHandler)
		})
	})
}
