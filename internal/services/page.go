package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	// PageKey is the Redis key holding the feedback page record.
	PageKey = "standup_page:employee-feedback"

	// PageStatusPublished marks the form page as live.
	PageStatusPublished = "publish"
	// PageStatusDraft marks the form page as unpublished but kept.
	PageStatusDraft = "draft"
)

// Page is the host-facing record for the page that embeds the form.
type Page struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

func defaultPage() Page {
	return Page{
		Title:   "Employee Feedback",
		Slug:    "employee-feedback",
		Content: "Please fill the following form to send your report.",
		Status:  PageStatusPublished,
	}
}

// PageService manages the feedback page lifecycle: ensure-on-activate,
// unpublish-on-deactivate, delete-on-uninstall.
type PageService struct {
	client *redis.Client
}

// NewPageService creates the page manager on the shared Redis client.
func NewPageService(client *redis.Client) *PageService {
	return &PageService{client: client}
}

// Get returns the page record and whether it exists.
func (p *PageService) Get(ctx context.Context) (Page, bool, error) {
	raw, err := p.client.Get(ctx, PageKey).Result()
	if err == redis.Nil {
		return Page{}, false, nil
	}
	if err != nil {
		return Page{}, false, err
	}
	var page Page
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return Page{}, false, err
	}
	return page, true, nil
}

// Activate ensures the feedback page exists and is published. A drafted
// page is republished; a published page is left alone.
func (p *PageService) Activate(ctx context.Context) error {
	page, exists, err := p.Get(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return p.save(ctx, defaultPage())
	}
	if page.Status == PageStatusDraft {
		page.Status = PageStatusPublished
		return p.save(ctx, page)
	}
	return nil
}

// Deactivate marks the page as draft. The page and all stored feedback
// survive; only the public form goes dark.
func (p *PageService) Deactivate(ctx context.Context) error {
	page, exists, err := p.Get(ctx)
	if err != nil || !exists {
		return err
	}
	page.Status = PageStatusDraft
	return p.save(ctx, page)
}

// Uninstall deletes the page record permanently. Sweeping the feedback
// store is the caller's job (it owns the store handle).
func (p *PageService) Uninstall(ctx context.Context) error {
	return p.client.Del(ctx, PageKey).Err()
}

// IsPublished reports whether the form page should render.
func (p *PageService) IsPublished(ctx context.Context) (bool, error) {
	page, exists, err := p.Get(ctx)
	if err != nil {
		return false, err
	}
	return exists && page.Status == PageStatusPublished, nil
}

func (p *PageService) save(ctx context.Context, page Page) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, PageKey, raw, 0).Err()
}
