package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skillsLinePattern = regexp.MustCompile(`(?i)Skills[ \t]*[:\n]\s*([^\n]+)`)

// extractSkills collects skill badges in first-seen order without duplicates.
// When the page has no badges it falls back to a "Skills: a, b" line.
func extractSkills(p *page) []string {
	scope := p.scope()
	var tags []string
	scope.Find(`.skills-list .air3-badge, .skills-list .badge, [data-test="skill"]`).Each(func(_ int, el *goquery.Selection) {
		src := el
		if clamp := el.Find(".air3-line-clamp").First(); clamp.Length() > 0 {
			src = clamp
		}
		if t := NormalizeSpace(src.Text()); t != "" {
			tags = append(tags, t)
		}
	})
	if len(tags) > 0 {
		return dedupe(tags)
	}

	m := skillsLinePattern.FindStringSubmatch(innerText(scope))
	if m == nil {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(m[1], ",") {
		if t := NormalizeSpace(part); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return dedupe(parts)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
