package services

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[ \t]+`)
	blankLinePattern  = regexp.MustCompile(`\n{3,}`)
)

// SanitizeField cleans a single-line form field: markup stripped, control
// characters removed, whitespace collapsed, ends trimmed.
func SanitizeField(s string) string {
	s = stripMarkup(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeText cleans a multi-line textarea field. Line structure is kept
// (blockers and task lists are often bulleted) but markup and control
// characters are stripped and runs of blank lines collapsed.
func SanitizeText(s string) string {
	s = stripMarkup(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = blankLinePattern.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripMarkup removes HTML/XML tags and non-printable control characters.
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = tagPattern.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
