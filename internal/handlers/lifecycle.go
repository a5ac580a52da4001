package handlers

import (
	"context"
	"net/http"
	"time"
)

// LifecycleResponse represents the response for lifecycle operations
type LifecycleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted,omitempty"`
}

// ActivatePage republishes the feedback page (and creates it on first run).
func ActivatePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := Pages.Activate(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, LifecycleResponse{
			Success: false,
			Message: "Failed to activate feedback page",
		})
		return
	}
	writeJSON(w, http.StatusOK, LifecycleResponse{
		Success: true,
		Message: "Feedback page published",
	})
}

// DeactivatePage unpublishes the feedback page. Stored submissions are kept.
func DeactivatePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := Pages.Deactivate(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, LifecycleResponse{
			Success: false,
			Message: "Failed to deactivate feedback page",
		})
		return
	}
	writeJSON(w, http.StatusOK, LifecycleResponse{
		Success: true,
		Message: "Feedback page set to draft",
	})
}

// Uninstall permanently removes the feedback page and every stored
// submission. There is no undo.
func Uninstall(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	deleted, err := Store.DeleteAll(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, LifecycleResponse{
			Success: false,
			Message: "Failed to delete stored feedback",
		})
		return
	}
	if err := Pages.Uninstall(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, LifecycleResponse{
			Success: false,
			Message: "Feedback deleted but the page could not be removed",
			Deleted: deleted,
		})
		return
	}

	writeJSON(w, http.StatusOK, LifecycleResponse{
		Success: true,
		Message: "Feedback page and all stored entries removed",
		Deleted: deleted,
	})
}
