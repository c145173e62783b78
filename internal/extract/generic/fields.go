package generic

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"traineewatch/internal/extract"
	"traineewatch/internal/extract/util"
)

// Placeholders for fields no locator could resolve. A missing optional
// field never discards the record.
const (
	UnknownOrganization = "Unknown Organization"
	UnknownLocation     = "Unknown Location"
)

var titleSelectors = []string{
	"h1", "h2", "h3", "h4", "h5",
	".title", ".job-title", ".traineeship-title", ".position-title",
	`[class*="title"]`, `[class*="heading"]`,
	`a[href*="/traineeship"]`, `a[href*="/internship"]`, `a[href*="/job"]`,
}

var organizationSelectors = []string{
	".company", ".organization", ".employer",
	`[class*="company"]`, `[class*="org"]`, `[class*="employer"]`,
}

var locationSelectors = []string{
	".location", ".city", ".country", ".place",
	`[class*="location"]`, `[class*="city"]`, `[class*="country"]`,
}

var (
	organizationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Company:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Organization:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Employer:\s*([^\n]+)`),
		regexp.MustCompile(`at\s+([A-Z][^\n,]+(?:Ltd|Inc|Corp|GmbH|B\.V\.|S\.A\.))`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Location:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)City:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Country:\s*([^\n]+)`),
		regexp.MustCompile(`in\s+([A-Z][a-z]+(?:,\s*[A-Z][a-z]+)*)`),
	}
	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Duration:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Length:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Period:\s*([^\n]+)`),
	}
	durationUnits = regexp.MustCompile(`(?i)\d+\s*(?:months?|weeks?)`)
)

// extractTitle resolves the one required field. Selector cascade first,
// then the first link's text, then bold text. Returns "" when nothing
// non-trivial matches, which discards the record.
func extractTitle(c *goquery.Selection) string {
	for _, selector := range titleSelectors {
		if t := util.CleanText(c.Find(selector).First().Text()); len(t) >= extract.MinTitleLen {
			return t
		}
	}
	if t := util.CleanText(c.Find("a[href]").First().Text()); len(t) >= extract.MinTitleLen {
		return t
	}
	if t := util.CleanText(c.Find("strong, b").First().Text()); len(t) >= extract.MinTitleLen {
		return t
	}
	return ""
}

func extractOrganization(c *goquery.Selection, text string) string {
	for _, selector := range organizationSelectors {
		if v := util.CleanText(c.Find(selector).First().Text()); v != "" {
			return v
		}
	}
	for _, p := range organizationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return util.CleanText(m[1])
		}
	}
	return UnknownOrganization
}

func extractLocation(c *goquery.Selection, text string) string {
	for _, selector := range locationSelectors {
		if v := util.CleanText(c.Find(selector).First().Text()); v != "" {
			return v
		}
	}
	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return util.CleanText(m[1])
		}
	}
	return UnknownLocation
}

func extractDeadline(text string) string {
	return util.LabeledDate(text, "Deadline:", "Apply by:", "Application deadline:", "Due:")
}

func extractStartDate(text string) string {
	return util.LabeledDate(text, "Start date:", "Starting:", "Begins:", "From:")
}

func extractDuration(text string) string {
	for _, p := range durationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return util.CleanText(m[1])
		}
	}
	return durationUnits.FindString(text)
}

// extractDescription takes the container text minus headings and keeps the
// first substantial sentence, truncated to the storage cap.
func extractDescription(c *goquery.Selection) string {
	clone := c.Clone()
	clone.Find("h1, h2, h3, h4, h5, h6").Remove()

	desc := util.FirstSubstantialSentence(clone.Text(), 20)
	return util.Truncate(desc, extract.MaxDescriptionLen)
}

func extractLink(c *goquery.Selection, baseURL string) string {
	href := c.Find("a[href]").First().AttrOr("href", "")
	return util.AbsoluteURL(baseURL, href)
}
