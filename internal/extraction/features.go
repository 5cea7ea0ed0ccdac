package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type features struct {
	budget      string
	experience  string
	projectType string
}

var (
	budgetLabels      = labelPatterns("Budget", "Hourly Range", "Fixed-price")
	experienceLabels  = labelPatterns("Experience level")
	projectTypeLabels = labelPatterns("Project type")
)

// extractFeatures reads the {label, value} feature list first, then the
// data-cy markers, then falls back to "Label: value" lines in the visible text.
func extractFeatures(p *page) features {
	scope := p.scope()
	var f features

	scope.Find("ul.features li, .features li").Each(func(_ int, li *goquery.Selection) {
		descEl := li.Find(".description").First()
		if descEl.Length() == 0 {
			return
		}
		descText := textOf(descEl)
		desc := strings.ToLower(descText)
		value := textOf(li.Find("strong").First())

		switch {
		case strings.Contains(desc, "fixed-price") || strings.Contains(desc, "hourly"):
			f.budget = withQualifier(value, descText)
		case strings.Contains(desc, "experience"):
			f.experience = value
			if f.experience == "" {
				f.experience = descText
			}
		}
	})

	if f.budget == "" {
		li := scope.Find(`[data-cy="fixed-price"]`).First().Closest("li")
		if li.Length() == 0 {
			li = scope.Find(`[data-cy="hourly"]`).First().Closest("li")
		}
		if li.Length() > 0 {
			f.budget = withQualifier(textOf(li.Find("strong").First()), textOf(li.Find(".description").First()))
		}
	}

	if f.experience == "" {
		if li := scope.Find(`[data-cy="expertise"]`).First().Closest("li"); li.Length() > 0 {
			f.experience = textOf(li.Find("strong").First())
		}
	}

	scope.Find(".segmentations li, ul.list-unstyled li").Each(func(_ int, li *goquery.Selection) {
		label := strings.ToLower(textOf(li.Find("strong").First()))
		if strings.Contains(label, "project type") {
			f.projectType = textOf(li.Find("span").First())
		}
	})

	if f.budget == "" || f.experience == "" || f.projectType == "" {
		text := innerText(scope)
		if f.budget == "" {
			f.budget = labeledValue(text, budgetLabels...)
		}
		if f.experience == "" {
			f.experience = labeledValue(text, experienceLabels...)
		}
		if f.projectType == "" {
			f.projectType = labeledValue(text, projectTypeLabels...)
		}
	}

	return f
}

// withQualifier renders "amount (kind)", or just the kind when there is no amount.
func withQualifier(amount, kind string) string {
	switch {
	case amount == "":
		return kind
	case kind == "":
		return amount
	default:
		return fmt.Sprintf("%s (%s)", amount, kind)
	}
}

// labelPatterns matches "Label: value" or "Label\nvalue", case-insensitively.
func labelPatterns(labels ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(labels))
	for i, label := range labels {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `[ \t]*[:\n]\s*([^\n]+)`)
	}
	return out
}

// labeledValue returns the value of the first label found in visible text.
func labeledValue(text string, patterns ...*regexp.Regexp) string {
	for _, rx := range patterns {
		if m := rx.FindStringSubmatch(text); m != nil {
			if v := NormalizeSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}
