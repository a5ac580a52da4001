package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Feedback is one standup form submission. CreatedAt is derived from the
// store key (second resolution) rather than stored in the payload.
type Feedback struct {
	CreatedAt time.Time `json:"-"`

	Name            string `json:"name"`
	YesterdaysTasks string `json:"yesterdays_tasks"`
	TodaysTasks     string `json:"todays_tasks"`
	Blockers        string `json:"blockers"`
}

// feedbackPayload covers both schema generations that may coexist in the
// store. Older entries carried date/jira_ticket/comments instead of the
// yesterdays/todays split and were written without a migration step.
type feedbackPayload struct {
	Name            string `json:"name"`
	YesterdaysTasks string `json:"yesterdays_tasks"`
	TodaysTasks     string `json:"todays_tasks"`
	Blockers        string `json:"blockers"`

	// Legacy fields
	Date       string `json:"date"`
	JiraTicket string `json:"jira_ticket"`
	Comments   string `json:"comments"`
}

// UnmarshalJSON decodes both current and legacy payloads. Missing fields
// decode to empty strings; a legacy comments/jira_ticket pair is surfaced
// through YesterdaysTasks so old rows still render and linkify.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	var p feedbackPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	f.Name = p.Name
	f.YesterdaysTasks = p.YesterdaysTasks
	f.TodaysTasks = p.TodaysTasks
	f.Blockers = p.Blockers

	if f.YesterdaysTasks == "" {
		legacy := p.Comments
		if p.JiraTicket != "" {
			if legacy != "" {
				legacy = p.JiraTicket + ": " + legacy
			} else {
				legacy = p.JiraTicket
			}
		}
		f.YesterdaysTasks = strings.TrimSpace(legacy)
	}

	return nil
}
