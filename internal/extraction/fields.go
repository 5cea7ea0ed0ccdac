package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// minDescriptionLength rejects selector hits that are only a label or stub.
const minDescriptionLength = 21

// maxPageDumpLength bounds the whole-page description fallback.
const maxPageDumpLength = 20000

var (
	pageTitleSuffix = regexp.MustCompile(`(?i)\s*[-|]\s*Upwork.*$`)
	postedPattern   = regexp.MustCompile(`(?i)Posted\s+(.+)`)
	locationPattern = regexp.MustCompile(`(?i)worldwide|domestic|u\.?s\.?\s*only|europe|asia|remote`)
)

func extractTitle(p *page) string {
	return NormalizeSpace(firstOf(p,
		contentText("h4 span.flex-1"),
		contentText("h4"),
		nuxtField("title"),
		documentText("h1"),
		documentTitle,
		literal(types.TitlePlaceholder),
	))
}

func extractDescription(p *page) string {
	return NormalizeMultiline(firstOf(p,
		descriptionBlock(`[data-test="Description"]`),
		descriptionBlock(`[data-test="job-description"]`),
		descriptionBlock(".job-description"),
		nuxtField("description"),
		contentSection,
		pageDump,
	))
}

func extractPostedDate(p *page) string {
	line := p.scope().Find(".posted-on-line").First()
	if line.Length() == 0 {
		return ""
	}
	t := textOf(line)
	if m := postedPattern.FindStringSubmatch(t); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return t
}

func extractJobLocation(p *page) string {
	scope := p.scope()
	var found string
	scope.Find(".posted-on-line ~ div, .posted-on-line div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := textOf(s)
		if t != "" && locationPattern.MatchString(t) {
			found = t
			return false
		}
		return true
	})
	if found != "" {
		return found
	}
	scope.Find(".posted-on-line p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := textOf(s)
		if t != "" && locationPattern.MatchString(t) {
			found = t
			return false
		}
		return true
	})
	return found
}

// contentText reads the first match inside the job content container only.
func contentText(selector string) Strategy {
	return func(p *page) string {
		if p.content.Length() == 0 {
			return ""
		}
		return textOf(p.content.Find(selector).First())
	}
}

func documentText(selector string) Strategy {
	return func(p *page) string {
		return textOf(p.doc.Find(selector).First())
	}
}

func documentTitle(p *page) string {
	t := NormalizeSpace(p.doc.Find("title").First().Text())
	return strings.TrimSpace(pageTitleSuffix.ReplaceAllString(t, ""))
}

func descriptionBlock(selector string) Strategy {
	return func(p *page) string {
		el := p.scope().Find(selector).First()
		if el.Length() == 0 {
			return ""
		}
		t := multilineTextOf(el)
		if utf8.RuneCountInString(t) < minDescriptionLength {
			return ""
		}
		return t
	}
}

func contentSection(p *page) string {
	if p.content.Length() == 0 {
		return ""
	}
	if section := p.content.Find("section").First(); section.Length() > 0 {
		return multilineTextOf(section)
	}
	return multilineTextOf(p.content)
}

func pageDump(p *page) string {
	return truncateRunes(multilineTextOf(p.doc.Find("body")), maxPageDumpLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
