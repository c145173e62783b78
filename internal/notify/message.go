package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"traineewatch/internal/domain"
)

// Meta identifies the batch being announced.
type Meta struct {
	SiteLabel string
	ListURL   string
	Timestamp time.Time
}

const messageTimeLayout = "2006-01-02 15:04:05"

// condensedMax is how many entries survive into the fallback message when
// the full one is rejected for size.
const condensedMax = 3

// BuildMessage renders the full alert: header with count and timestamp,
// one numbered block per record with optional fields omitted when empty,
// and a footer linking the listings page. Telegram Markdown.
func BuildMessage(listings []domain.Listing, meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 *%d New %s Listing(s) Found!*\n\n", len(listings), meta.SiteLabel)
	fmt.Fprintf(&b, "Found on %s\n\n", meta.Timestamp.Format(messageTimeLayout))

	for i, l := range listings {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, escape(l.Title))
		writeField(&b, "📋 Category", l.Category)
		writeField(&b, "🏢 Organization", l.Organization)
		writeField(&b, "📍 Location", l.Location)

		switch {
		case l.StartDate != "" && l.EndDate != "":
			fmt.Fprintf(&b, "📅 Period: %s - %s\n", l.StartDate, l.EndDate)
		case l.StartDate != "":
			fmt.Fprintf(&b, "📅 From: %s\n", l.StartDate)
		}

		writeField(&b, "⏱ Duration", l.Duration)
		writeField(&b, "⏰ Deadline", l.Deadline)
		writeField(&b, "🔢 Reference", l.Reference)

		if strings.HasPrefix(l.URL, "http") {
			fmt.Fprintf(&b, "🔗 [View Details](%s)\n", l.URL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "[View All %s Listings](%s)\n", meta.SiteLabel, meta.ListURL)
	b.WriteString("_Auto-generated alert._")

	return b.String()
}

// BuildCondensed renders the oversize fallback: a bullet per record for the
// first few, then a single "and K more" line.
func BuildCondensed(listings []domain.Listing, meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 *%d New %s Listings Found!*\n\n", len(listings), meta.SiteLabel)

	shown := listings
	if len(shown) > condensedMax {
		shown = shown[:condensedMax]
	}
	for _, l := range shown {
		fmt.Fprintf(&b, "• %s in %s", escape(l.Title), escape(l.Location))
		if l.Deadline != "" {
			fmt.Fprintf(&b, " (Deadline: %s)", l.Deadline)
		}
		b.WriteString("\n")
	}
	if rest := len(listings) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "• ... and %d more\n", rest)
	}

	fmt.Fprintf(&b, "\n[View All](%s)", meta.ListURL)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, escape(value))
}

// escape neutralizes Markdown entities in scraped text so a title with
// "*" or "[" in it can't make Telegram reject the whole message.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
