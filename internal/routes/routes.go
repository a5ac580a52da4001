package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/pacificdev/standup-intake/internal/handlers"
	"github.com/pacificdev/standup-intake/internal/middleware"
)

func SetupRoutes(r *chi.Mux) {
	// Public form page + submission (rate limited: standups are human-paced)
	r.Get("/feedback", handlers.FeedbackFormPage)
	r.With(middleware.SubmitRateLimit).Post("/feedback", handlers.SubmitFeedbackForm)
	r.With(middleware.SubmitRateLimit).Post("/api/feedback", handlers.SubmitFeedbackAPI)

	// Admin view (admin access is enforced by the hosting proxy)
	r.Get("/admin/feedback", handlers.AdminFeedbackPage)
	r.Post("/admin/feedback/delete", handlers.DeleteFeedbackAction)

	// Admin JSON API
	r.Get("/api/admin/feedback", handlers.GetFeedbacks)
	r.Delete("/api/admin/feedback", handlers.DeleteFeedbackAPI)

	// Lifecycle (mirrors the old plugin activate/deactivate/uninstall hooks)
	r.Post("/api/admin/lifecycle/activate", handlers.ActivatePage)
	r.Post("/api/admin/lifecycle/deactivate", handlers.DeactivatePage)
	r.Post("/api/admin/lifecycle/uninstall", handlers.Uninstall)
}
