package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	qualificationHeadings = []string{"preferred qualifications"}
	questionHeadings      = []string{"following questions", "screening questions"}
)

func extractQualifications(p *page) []string {
	if items := listItems(p.scope().Find("ul.qualification-items li")); len(items) > 0 {
		return items
	}
	return listAfterHeading(p, qualificationHeadings)
}

func extractQuestions(p *page) []string {
	if items := listItems(p.scope().Find(`[data-test="questions"] li`)); len(items) > 0 {
		return items
	}
	return listAfterHeading(p, questionHeadings)
}

// listAfterHeading finds the first heading mentioning one of phrases and returns
// the items of the list that follows it within the same section.
func listAfterHeading(p *page, phrases []string) []string {
	var items []string
	p.scope().Find("h2, h3, h4, h5, strong").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		label := strings.ToLower(textOf(h))
		if !containsAny(label, phrases) {
			return true
		}
		list := h.NextAllFiltered("ul, ol").First()
		if list.Length() == 0 {
			list = h.Parent().Find("ul, ol").First()
		}
		items = listItems(list.Find("li"))
		return len(items) == 0
	})
	return items
}

func listItems(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, li *goquery.Selection) {
		if t := textOf(li); t != "" {
			out = append(out, t)
		}
	})
	if len(out) == 0 {
		return nil
	}
	return dedupe(out)
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
