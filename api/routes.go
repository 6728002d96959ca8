package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every operation to its single code path.
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.status())

		// Project endpoints
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.listProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Post("/upload", handlers.fileHandler.uploadFile())
			r.Post("/upload-multiple", handlers.fileHandler.uploadFiles())
			r.Get("/{projectID}", handlers.projectHandler.getProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
			r.Get("/{projectID}/files", handlers.fileHandler.listProjectFiles())
		})

		// File endpoints
		r.Route("/files", func(r chi.Router) {
			r.Get("/{fileID}/download", handlers.fileHandler.downloadFile())
			r.Delete("/{fileID}", handlers.fileHandler.deleteFile())
		})

		// Outcome endpoints
		r.Route("/outcomes", func(r chi.Router) {
			r.Post("/", handlers.outcomeHandler.createOutcome())
			r.Get("/project/{projectID}", handlers.outcomeHandler.getLatestOutcome())
			r.Put("/{outcomeID}", handlers.outcomeHandler.updateOutcome())
			r.Delete("/{outcomeID}", handlers.outcomeHandler.deleteOutcome())
		})
	})
}
