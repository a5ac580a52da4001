package handlers

import (
	"context"
	"html"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/pacificdev/standup-intake/internal/services"
)

type formPageData struct {
	Title    string
	Content  string
	Messages []string
}

type adminRow struct {
	Key       string
	DateLog   string
	Name      string
	Yesterday template.HTML
	Today     template.HTML
	Blockers  template.HTML
}

type adminPageData struct {
	Rows []adminRow
}

// FeedbackFormPage renders the standup form with any pending flash
// messages. When the page has been deactivated it answers 404 instead of
// serving the form.
func FeedbackFormPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	published, err := Pages.IsPublished(ctx)
	if err != nil {
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
		return
	}
	if !published {
		http.Error(w, "This page is not published.", http.StatusNotFound)
		return
	}

	page, _, err := Pages.Get(ctx)
	if err != nil {
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
		return
	}

	data := formPageData{
		Title:    page.Title,
		Content:  page.Content,
		Messages: Flash.Pop(ctx, w, r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, data); err != nil {
		log.Printf("form page render failed: %v", err)
	}
}

// AdminFeedbackPage renders the stored submissions as a table with a delete
// button per row. Ticket references in task and blocker fields become links.
func AdminFeedbackPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := Store.ListAll(ctx)
	if err != nil {
		http.Error(w, "Failed to load feedback data.", http.StatusInternalServerError)
		return
	}

	rows := make([]adminRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, adminRow{
			Key:       entry.Key,
			DateLog:   entry.Feedback.CreatedAt.Format("2006-01-02 15:04:05"),
			Name:      entry.Feedback.Name,
			Yesterday: linkifyCell(entry.Feedback.YesterdaysTasks),
			Today:     linkifyCell(entry.Feedback.TodaysTasks),
			Blockers:  linkifyCell(entry.Feedback.Blockers),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, adminPageData{Rows: rows}); err != nil {
		log.Printf("admin page render failed: %v", err)
	}
}

// linkifyCell escapes stored text and wraps ticket references in anchors.
// Escape first, then linkify: the linker passes non-token text through
// untouched, so the anchors it inserts are the only markup in the cell.
func linkifyCell(text string) template.HTML {
	return template.HTML(Linker.Linkify(html.EscapeString(text), services.LinkStyleHTML))
}
