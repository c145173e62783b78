// Package generic extracts listings from pages without a stable structure,
// via an ordered cascade of container-locator strategies and hash-derived
// identifiers. ErasmusIntern-style portals use this ruleset.
package generic

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"traineewatch/internal/domain"
	"traineewatch/internal/extract"
	"traineewatch/internal/identity"
	"traineewatch/internal/logging"
)

type Extractor struct {
	name    string
	listURL string
	baseURL string
	log     *logging.Logger
	now     func() time.Time
}

func New(name, listURL, baseURL string, log *logging.Logger) *Extractor {
	return &Extractor{
		name:    name,
		listURL: listURL,
		baseURL: baseURL,
		log:     log.With("site", name, "ruleset", "generic"),
		now:     time.Now,
	}
}

func (e *Extractor) Name() string    { return e.name }
func (e *Extractor) ListURL() string { return e.listURL }

func (e *Extractor) Extract(html string) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	if title := doc.Find("title").First().Text(); title != "" {
		e.log.Debug("parsing page", "page_title", strings.TrimSpace(title))
	}

	containers, strategy := findContainers(doc)
	if containers == nil {
		return nil, extract.ErrStructureChanged
	}
	e.log.Info("located containers", "strategy", strategy, "count", containers.Length())

	seen := map[string]bool{}
	var out []domain.Listing

	containers.Each(func(i int, c *goquery.Selection) {
		l, ok := e.parseContainer(c, i)
		if !ok {
			return
		}
		if seen[l.ID] {
			e.log.Warn("duplicate identifier in batch, skipping", "container", i, "id", l.ID)
			return
		}
		seen[l.ID] = true
		out = append(out, l)
	})

	e.log.Info("extraction finished", "containers", containers.Length(), "records", len(out))
	return out, nil
}

// parseContainer extracts one record. Every field locator is independent:
// one failing locator resolves to its placeholder without touching the
// others. Title is the only field that can sink the record.
func (e *Extractor) parseContainer(c *goquery.Selection, index int) (l domain.Listing, ok bool) {
	defer func() {
		// A single bad container must not abort the batch.
		if r := recover(); r != nil {
			e.log.Warn("container parse failed, skipping", "container", index, "panic", r)
			ok = false
		}
	}()

	title := extractTitle(c)
	if len(title) < extract.MinTitleLen {
		e.log.Debug("container has no usable title, discarding", "container", index)
		return domain.Listing{}, false
	}

	text := c.Text()

	return domain.Listing{
		ID:           identity.Derive(title, text),
		Title:        title,
		Organization: extractOrganization(c, text),
		Location:     extractLocation(c, text),
		Duration:     extractDuration(text),
		StartDate:    extractStartDate(text),
		Deadline:     extractDeadline(text),
		Description:  extractDescription(c),
		URL:          extractLink(c, e.baseURL),
		FirstSeen:    e.now(),
	}, true
}
