package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all application routes. Read endpoints and the email
// capture form are public; writes and admin reports go through adminAuth.
func MountRoutes(r chi.Router, h *Handler, health *HealthHandler, adminAuth func(http.Handler) http.Handler) {
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/submit-email", h.SubmitEmail)

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", h.ListLanguages)
		r.Get("/languages/{id}", h.GetLanguage)
		r.Get("/languages/{id}/labels", h.ListLanguageLabels)

		r.Get("/label-groups", h.ListLabelGroups)
		r.Get("/label-groups/{id}", h.GetLabelGroup)
		r.Get("/label-groups/{id}/codes", h.ListLabelCodes)
		r.Get("/label-groups/{id}/codes/{codeID}", h.GetLabelCode)

		r.Post("/labels/validate", h.ValidateLabel)

		// Admin-only writes and reports
		r.Group(func(r chi.Router) {
			r.Use(adminAuth)

			r.Post("/languages", h.CreateLanguage)
			r.Put("/languages/{id}", h.UpdateLanguage)
			r.Delete("/languages/{id}", h.DeactivateLanguage)

			r.Post("/label-groups", h.CreateLabelGroup)
			r.Post("/label-groups/{id}/codes", h.CreateLabelCode)

			r.Post("/labels", h.InsertLabel)
			r.Post("/labels/bulk-insert", h.BulkInsertLabels)

			r.Delete("/translations/{id}", h.DeleteTranslation)

			r.Get("/emails", h.ListEmails)
			r.Get("/stats", h.Stats)
			r.Get("/events", h.ListEvents)
		})
	})
}
