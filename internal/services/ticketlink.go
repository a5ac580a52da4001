package services

import (
	"regexp"
	"strings"
)

// LinkStyle selects the output markup for linkified ticket references.
type LinkStyle string

const (
	// LinkStyleHTML renders <a href="...">TOKEN</a> anchors.
	LinkStyleHTML LinkStyle = "html"
	// LinkStyleSlack renders Slack mrkdwn <url|TOKEN> links.
	LinkStyleSlack LinkStyle = "slack"
)

// Ticket keys are exactly 4 uppercase letters, a hyphen, and 3-4 digits
// (e.g. WPDB-1234). Word boundaries are enforced separately because RE2
// has no lookbehind.
var ticketPattern = regexp.MustCompile(`[A-Z]{4}-[0-9]{3,4}`)

// TicketLinker rewrites Jira ticket references in free text as links to
// <base>/browse/<TOKEN>. It is a pure transform: non-matching text passes
// through byte for byte, so callers that render HTML must escape the text
// before linkifying.
type TicketLinker struct {
	baseURL string
}

// NewTicketLinker creates a linker for the given Jira base URL
// (scheme + host, no trailing slash).
func NewTicketLinker(baseURL string) *TicketLinker {
	return &TicketLinker{baseURL: strings.TrimRight(baseURL, "/")}
}

// BrowseURL returns the destination URL for a ticket token.
func (l *TicketLinker) BrowseURL(token string) string {
	return l.baseURL + "/browse/" + token
}

// Linkify replaces every whole-word ticket reference in text with a link in
// the requested style. Idempotent: tokens already part of a link to the
// same destination are left untouched, so running it twice changes nothing.
func (l *TicketLinker) Linkify(text string, style LinkStyle) string {
	matches := ticketPattern.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		token := text[start:end]

		if !wholeWord(text, start, end) || l.insideExistingLink(text, start, token) {
			continue
		}

		b.WriteString(text[last:start])
		switch style {
		case LinkStyleHTML:
			b.WriteString(`<a href="` + l.BrowseURL(token) + `">` + token + `</a>`)
		default:
			b.WriteString("<" + l.BrowseURL(token) + "|" + token + ">")
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// wholeWord reports whether the match is not embedded in a longer
// alphanumeric run (AAAA-123 inside XAAAA-123, or followed by more digits,
// must not match).
func wholeWord(text string, start, end int) bool {
	if start > 0 && isAlphanumeric(text[start-1]) {
		return false
	}
	if end < len(text) && isAlphanumeric(text[end]) {
		return false
	}
	return true
}

// insideExistingLink reports whether the token at start is already part of
// a link to this linker's destination: either the URL portion (directly
// preceded by the /browse/ prefix) or the label of an anchor or mrkdwn
// link pointing at the same token.
func (l *TicketLinker) insideExistingLink(text string, start int, token string) bool {
	before := text[:start]
	browse := l.baseURL + "/browse/"
	if strings.HasSuffix(before, browse) {
		return true
	}
	// HTML label: ...href="<base>/browse/TOKEN">TOKEN</a>
	if strings.HasSuffix(before, browse+token+`">`) {
		return true
	}
	// Slack label: <<base>/browse/TOKEN|TOKEN>
	if strings.HasSuffix(before, browse+token+"|") {
		return true
	}
	return false
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
