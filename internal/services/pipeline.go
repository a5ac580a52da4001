package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pacificdev/standup-intake/internal/models"
)

// Notifier is what the pipeline needs from a notification sink.
type Notifier interface {
	Enabled() bool
	Notify(fb models.Feedback) error
}

// SubmissionInput is the raw field set from an inbound form post.
type SubmissionInput struct {
	Name            string
	YesterdaysTasks string
	TodaysTasks     string
	Blockers        string
}

// SubmissionResult is what the submitter should see, flash-style: a primary
// message and, when the webhook call failed, a secondary warning. The
// caller owns storing and clearing it.
type SubmissionResult struct {
	Success bool
	Key     string
	Message string
	Warning string
}

// ValidationError rejects a submission before anything is persisted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// SubmissionPipeline runs validate → sanitize → persist → notify for one
// form submission.
type SubmissionPipeline struct {
	store    FeedbackStore
	notifier Notifier
}

// NewSubmissionPipeline wires the pipeline to its store and sink.
func NewSubmissionPipeline(store FeedbackStore, notifier Notifier) *SubmissionPipeline {
	return &SubmissionPipeline{store: store, notifier: notifier}
}

// Submit processes one submission. A *ValidationError means the input was
// rejected and nothing was stored; any other error is a persistence failure.
// A notification failure never fails the submission: the record is already
// durable by then, so it is downgraded to Result.Warning.
func (p *SubmissionPipeline) Submit(ctx context.Context, in SubmissionInput) (SubmissionResult, error) {
	fb := models.Feedback{
		Name:            SanitizeField(in.Name),
		YesterdaysTasks: SanitizeText(in.YesterdaysTasks),
		TodaysTasks:     SanitizeText(in.TodaysTasks),
		Blockers:        SanitizeText(in.Blockers),
	}

	if err := validate(fb); err != nil {
		return SubmissionResult{Success: false, Message: rejectionMessage(err)}, err
	}

	key, err := p.store.Put(ctx, fb)
	if err != nil {
		return SubmissionResult{Success: false, Message: "Failed to save your report. Please try again."}, err
	}

	result := SubmissionResult{
		Success: true,
		Key:     key,
		Message: "Feedback submitted successfully!",
	}

	if p.notifier != nil && p.notifier.Enabled() {
		if err := p.notifier.Notify(fb); err != nil {
			log.Printf("webhook notification failed for %s: %v", key, err)
			result.Warning = "Saved, but the team channel could not be notified."
		}
	}

	return result, nil
}

func validate(fb models.Feedback) *ValidationError {
	switch {
	case fb.Name == "":
		return &ValidationError{Field: "name"}
	case fb.YesterdaysTasks == "":
		return &ValidationError{Field: "yesterdays_tasks"}
	case fb.TodaysTasks == "":
		return &ValidationError{Field: "todays_tasks"}
	}
	// blockers may be empty
	return nil
}

func rejectionMessage(err *ValidationError) string {
	switch err.Field {
	case "name":
		return "Developer name is required."
	case "yesterdays_tasks":
		return "Yesterday's tasks are required."
	case "todays_tasks":
		return "Today's tasks are required."
	}
	return "Missing required field."
}
