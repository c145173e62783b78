package util

import (
	"regexp"
	"strings"
)

// Date shapes seen across the monitored portals. Order matters: the first
// match wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),    // DD/MM/YYYY
	regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),    // DD-MM-YYYY
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),    // YYYY-MM-DD
	regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`),  // DD.MM.YYYY
	regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`), // Month DD, YYYY
	regexp.MustCompile(`\d{1,2} [A-Za-z]+ \d{4}`),  // DD Month YYYY
}

// FindDate returns the first recognizable date in text, or "".
func FindDate(text string) string {
	for _, p := range datePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// LabeledValue scans text for "<label> <value-to-end-of-line>" with any of
// the given labels (case-insensitive) and returns the trimmed value.
func LabeledValue(text string, labels ...string) string {
	for _, label := range labels {
		p := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*([^\n]+)`)
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// LabeledDate is LabeledValue narrowed to a date-shaped value.
func LabeledDate(text string, labels ...string) string {
	v := LabeledValue(text, labels...)
	if v == "" {
		return ""
	}
	return FindDate(v)
}
