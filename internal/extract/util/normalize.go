package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Truncate caps s at max runes. Description snippets are stored truncated,
// not the full container text.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Leading returns the first n runes of the cleaned text. Identity hashing
// keys off this slice so trailing ads/footers inside a container don't
// churn identifiers.
func Leading(s string, n int) string {
	return Truncate(CleanText(s), n)
}

// FirstSubstantialSentence picks the first sentence longer than minLen,
// which is usually the description rather than a label or nav crumb.
func FirstSubstantialSentence(s string, minLen int) string {
	for _, part := range strings.Split(s, ".") {
		part = CleanText(part)
		if len(part) > minLen {
			return part
		}
	}
	return ""
}

// AbsoluteURL resolves href against the site origin the way the portals
// emit links: already-absolute, root-relative, or bare paths.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(base, "/") + href
	default:
		return strings.TrimSuffix(base, "/") + "/" + href
	}
}
