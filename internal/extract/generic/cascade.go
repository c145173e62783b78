package generic

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Known listing selectors, most specific first. Accepting a selector only
// when it matches at least two nodes filters out page chrome that happens
// to reuse a class name.
var containerSelectors = []string{
	".traineeship-item", ".job-item", ".internship-item",
	".listing-item", ".opportunity-item", ".vacancy-item",
	`[class*="traineeship"]`, `[class*="internship"]`, `[class*="job"]`,
	".card", ".post", ".entry", ".item",
	"article", ".result", ".listing",
}

// fallbackCap bounds the link-based fallback so a nav-heavy page doesn't
// flood the batch with noise.
const fallbackCap = 20

type containerStrategy struct {
	name string
	find func(doc *goquery.Document) *goquery.Selection
}

// containerStrategies is the ordered cascade: exact selector match, then
// repeated-class inference, then link-bearing elements. The first strategy
// yielding containers wins; markup drift moves matching down the list
// instead of requiring code changes.
var containerStrategies = []containerStrategy{
	{name: "known-selectors", find: findByKnownSelectors},
	{name: "repeated-class-pattern", find: findByRepeatedClass},
	{name: "link-bearing-fallback", find: findByLinks},
}

func findContainers(doc *goquery.Document) (*goquery.Selection, string) {
	for _, st := range containerStrategies {
		if sel := st.find(doc); sel != nil && sel.Length() > 0 {
			return sel, st.name
		}
	}
	return nil, ""
}

func findByKnownSelectors(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		sel := doc.Find(selector)
		if sel.Length() >= 2 {
			return sel
		}
	}
	return nil
}

// findByRepeatedClass looks for div class sets appearing three or more
// times; repeated identical structure is usually the listing grid.
func findByRepeatedClass(doc *goquery.Document) *goquery.Selection {
	divs := doc.Find("div")

	counts := map[string]int{}
	var order []string
	divs.Each(func(_ int, s *goquery.Selection) {
		key := classKey(s)
		if key == "" {
			return
		}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	})

	for _, key := range order {
		if counts[key] < 3 {
			continue
		}
		sel := divs.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classKey(s) == key
		})
		if validateContainers(sel) {
			return sel
		}
	}
	return nil
}

func findByLinks(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find("div, article, li").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("a[href]").Length() > 0
	})
	if sel.Length() == 0 {
		return nil
	}
	if sel.Length() > fallbackCap {
		sel = sel.Slice(0, fallbackCap)
	}
	return sel
}

// validateContainers sanity-checks that a repeated structure actually looks
// like listings: the first few entries carry links and substantial text.
func validateContainers(sel *goquery.Selection) bool {
	if sel.Length() < 2 {
		return false
	}

	probe := sel
	if probe.Length() > 5 {
		probe = probe.Slice(0, 5)
	}

	var withLinks, withText int
	probe.Each(func(_ int, s *goquery.Selection) {
		if s.Find("a[href]").Length() > 0 {
			withLinks++
		}
		if len(strings.TrimSpace(s.Text())) > 20 {
			withText++
		}
	})
	return withLinks >= 2 && withText >= 2
}

func classKey(s *goquery.Selection) string {
	classes := strings.Fields(s.AttrOr("class", ""))
	if len(classes) == 0 {
		return ""
	}
	sort.Strings(classes)
	return strings.Join(classes, " ")
}
