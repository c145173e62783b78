// Package eurodyssey extracts listings from the EurOdyssey traineeship
// table. The markup is stable and every row carries a native data-id, so no
// cascade or hash derivation is needed here.
package eurodyssey

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"traineewatch/internal/domain"
	"traineewatch/internal/extract"
	"traineewatch/internal/extract/util"
	"traineewatch/internal/identity"
	"traineewatch/internal/logging"
)

const (
	unknownRegion  = "Unknown Region"
	unknownCountry = "Unknown Country"
	unknownArea    = "Unknown Area"
)

// minCells is how many columns a real listing row has: dates, title/area,
// region/country, reference, detail link.
const minCells = 5

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
		log:     log.With("site", name, "ruleset", "eurodyssey"),
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

	table := doc.Find("table#traineeship-table")
	if table.Length() == 0 {
		return nil, extract.ErrStructureChanged
	}

	rows := table.Find("tr.ed-table-row")
	if rows.Length() == 0 {
		return nil, extract.ErrStructureChanged
	}
	e.log.Info("located traineeship rows", "count", rows.Length())

	seen := map[string]bool{}
	var out []domain.Listing

	rows.Each(func(i int, row *goquery.Selection) {
		l, ok := e.parseRow(row, i)
		if !ok {
			return
		}
		if seen[l.ID] {
			e.log.Warn("duplicate identifier in batch, skipping", "row", i, "id", l.ID)
			return
		}
		seen[l.ID] = true
		out = append(out, l)
	})

	e.log.Info("extraction finished", "rows", rows.Length(), "records", len(out))
	return out, nil
}

func (e *Extractor) parseRow(row *goquery.Selection, index int) (l domain.Listing, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("row parse failed, skipping", "row", index, "panic", r)
			ok = false
		}
	}()

	id := strings.TrimSpace(row.AttrOr("data-id", ""))
	if id == "" {
		id = identity.FromIndex(index)
	}

	cells := row.Find("td")
	if cells.Length() < minCells {
		e.log.Warn("row has insufficient cells, skipping", "row", index, "cells", cells.Length())
		return domain.Listing{}, false
	}

	dateText := cells.Eq(0).Text()
	from := util.LabeledDate(dateText, "From:")
	until := util.LabeledDate(dateText, "Until:")
	deadline := e.extractDeadline(cells.Eq(0))

	titleCell := cells.Eq(1)
	title := cellValue(titleCell.Find("p.ed-table-data__value").First())
	if len(title) < extract.MinTitleLen {
		e.log.Debug("row has no usable title, discarding", "row", index)
		return domain.Listing{}, false
	}

	area := unknownArea
	if data := titleCell.Find("div.ed-table-data"); data.Length() >= 2 {
		if v := cellValue(data.Eq(1).Find("p.ed-table-data__value")); v != "" {
			area = v
		}
	}

	locationCell := cells.Eq(2)
	region, country := unknownRegion, unknownCountry
	locData := locationCell.Find("div.ed-table-data")
	if locData.Length() >= 1 {
		if v := cellValue(locData.Eq(0).Find("p.ed-table-data__value")); v != "" {
			region = v
		}
	}
	if locData.Length() >= 2 {
		if v := cellValue(locData.Eq(1).Find("p.ed-table-data__value")); v != "" {
			country = v
		}
	}

	reference := cellValue(cells.Eq(3).Find("p.ed-table-data__value"))
	if reference == "" {
		reference = "REF_" + id
	}

	href := cells.Eq(4).Find("a.traineeship-listing__traineeship-link").First().AttrOr("href", "")

	return domain.Listing{
		ID:        id,
		Title:     title,
		Category:  area,
		Location:  region + ", " + country,
		StartDate: from,
		EndDate:   until,
		Deadline:  deadline,
		Reference: reference,
		URL:       util.AbsoluteURL(e.baseURL, href),
		FirstSeen: e.now(),
	}, true
}

// extractDeadline finds the labeled deadline block in the dates cell and
// pulls a date-shaped value out of it.
func (e *Extractor) extractDeadline(dateCell *goquery.Selection) string {
	var deadline string
	dateCell.Find("div.ed-table-data--second").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		label := section.Find("p.ed-table-data__label").Text()
		if !strings.Contains(strings.ToLower(label), "deadline") {
			return true
		}
		deadline = util.FindDate(section.Find("p.ed-table-data__value").Text())
		return deadline == ""
	})
	return deadline
}

func cellValue(sel *goquery.Selection) string {
	return util.CleanText(sel.First().Text())
}
