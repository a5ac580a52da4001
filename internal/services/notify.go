package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pacificdev/standup-intake/internal/models"
)

// webhookPayload is the fixed incoming-webhook message shape.
type webhookPayload struct {
	Channel  string `json:"channel"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// WebhookNotifier posts a summary of each submission to a Slack-compatible
// incoming webhook. One synchronous attempt, no retry; failure is the
// caller's to surface.
type WebhookNotifier struct {
	url      string
	channel  string
	username string
	linker   *TicketLinker
	client   *http.Client
}

// NewWebhookNotifier creates a notifier. An empty url disables it: Notify
// becomes a no-op so call sites don't need their own guard.
func NewWebhookNotifier(url, channel, username string, linker *TicketLinker) *WebhookNotifier {
	return &WebhookNotifier{
		url:      url,
		channel:  channel,
		username: username,
		linker:   linker,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// Notify sends one submission to the webhook. Task and blocker fields are
// linkified in Slack mrkdwn style before embedding. Never panics; any
// transport or remote error comes back as a plain error.
func (n *WebhookNotifier) Notify(fb models.Feedback) error {
	if !n.Enabled() {
		return nil
	}

	payload := webhookPayload{
		Channel:  n.channel,
		Username: n.username,
		Text:     n.formatText(fb),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Slack-style webhooks return a short error description in the body.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (n *WebhookNotifier) formatText(fb models.Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Standup report from %s*\n", fb.Name)
	fmt.Fprintf(&b, "*Yesterday:* %s\n", n.linker.Linkify(fb.YesterdaysTasks, LinkStyleSlack))
	fmt.Fprintf(&b, "*Today:* %s\n", n.linker.Linkify(fb.TodaysTasks, LinkStyleSlack))
	blockers := fb.Blockers
	if blockers == "" {
		blockers = "none"
	} else {
		blockers = n.linker.Linkify(blockers, LinkStyleSlack)
	}
	fmt.Fprintf(&b, "*Blockers:* %s", blockers)
	return b.String()
}
