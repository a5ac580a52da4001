package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pacificdev/standup-intake/internal/services"
)

// SubmitFeedbackRequest represents the request to submit a standup report
type SubmitFeedbackRequest struct {
	Name            string `json:"name"`
	YesterdaysTasks string `json:"yesterdays_tasks"`
	TodaysTasks     string `json:"todays_tasks"`
	Blockers        string `json:"blockers"`
}

// SubmitFeedbackResponse represents the response after submitting a report
type SubmitFeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
	Key     string `json:"key,omitempty"`
}

// GetFeedbacksResponse represents the response for getting stored reports
type GetFeedbacksResponse struct {
	Success   bool                     `json:"success"`
	Message   string                   `json:"message,omitempty"`
	Feedbacks []map[string]interface{} `json:"feedbacks"`
	Total     int                      `json:"total"`
}

// SubmitFeedbackForm handles the browser form post: run the pipeline, stash
// the outcome as a one-shot flash, and redirect back to the form page.
// Every path out of here is a redirect; the form never sees a bare error.
func SubmitFeedbackForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		Flash.Set(ctx, w, "Could not read the submitted form.")
		http.Redirect(w, r, "/feedback", http.StatusSeeOther)
		return
	}

	returnPath := services.SafeReturnPath(r.PostFormValue("return_to"), "/feedback")

	// The pipeline folds every outcome (completed, rejected, store failure)
	// into user-facing messages; the form flow just flashes and redirects.
	result, _ := Pipeline.Submit(ctx, services.SubmissionInput{
		Name:            r.PostFormValue("name"),
		YesterdaysTasks: r.PostFormValue("yesterdays_tasks"),
		TodaysTasks:     r.PostFormValue("todays_tasks"),
		Blockers:        r.PostFormValue("blockers"),
	})

	messages := []string{result.Message}
	if result.Warning != "" {
		messages = append(messages, result.Warning)
	}
	Flash.Set(ctx, w, messages...)

	http.Redirect(w, r, returnPath, http.StatusSeeOther)
}

// SubmitFeedbackAPI handles JSON submissions of the same pipeline.
func SubmitFeedbackAPI(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result, err := Pipeline.Submit(ctx, services.SubmissionInput{
		Name:            req.Name,
		YesterdaysTasks: req.YesterdaysTasks,
		TodaysTasks:     req.TodaysTasks,
		Blockers:        req.Blockers,
	})

	var ve *services.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{
			Success: true,
			Message: result.Message,
			Warning: result.Warning,
			Key:     result.Key,
		})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{
			Success: false,
			Message: result.Message,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, SubmitFeedbackResponse{
			Success: false,
			Message: result.Message,
		})
	}
}

// GetFeedbacks handles getting all stored reports (admin only)
func GetFeedbacks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := Store.ListAll(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, GetFeedbacksResponse{
			Success:   false,
			Message:   "Failed to fetch feedback entries",
			Feedbacks: []map[string]interface{}{},
			Total:     0,
		})
		return
	}

	feedbackMaps := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		feedbackMaps = append(feedbackMaps, map[string]interface{}{
			"key":              entry.Key,
			"created_at":       entry.Feedback.CreatedAt,
			"name":             entry.Feedback.Name,
			"yesterdays_tasks": entry.Feedback.YesterdaysTasks,
			"todays_tasks":     entry.Feedback.TodaysTasks,
			"blockers":         entry.Feedback.Blockers,
		})
	}

	writeJSON(w, http.StatusOK, GetFeedbacksResponse{
		Success:   true,
		Feedbacks: feedbackMaps,
		Total:     len(feedbackMaps),
	})
}

// DeleteFeedbackAction handles the admin table's delete button. The
// response body is the literal word the admin page script checks for:
// "success" when the entry was removed, "error" otherwise.
func DeleteFeedbackAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := r.ParseForm(); err != nil {
		w.Write([]byte("error"))
		return
	}
	key := r.PostFormValue("entry_key")
	if key == "" {
		w.Write([]byte("error"))
		return
	}

	if _, err := Store.Delete(ctx, key); err != nil {
		w.Write([]byte("error"))
		return
	}
	// Already-gone entries count as deleted; the row is stale either way.
	w.Write([]byte("success"))
}

// DeleteFeedbackAPI deletes one entry by key (admin only)
func DeleteFeedbackAPI(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{
			Success: false,
			Message: "Entry key is required",
		})
		return
	}

	existed, err := Store.Delete(ctx, key)
	if errors.Is(err, services.ErrInvalidKey) {
		writeJSON(w, http.StatusBadRequest, SubmitFeedbackResponse{
			Success: false,
			Message: "Invalid entry key",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, SubmitFeedbackResponse{
			Success: false,
			Message: "Failed to delete entry",
		})
		return
	}
	if !existed {
		writeJSON(w, http.StatusNotFound, SubmitFeedbackResponse{
			Success: false,
			Message: "Entry not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, SubmitFeedbackResponse{
		Success: true,
		Message: "Entry deleted successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
