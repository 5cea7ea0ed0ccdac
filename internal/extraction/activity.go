package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	bidRangePrefix = regexp.MustCompile(`(?i)^bid range\s*[-–—]?\s*`)

	// Layouts have used both phrasings for the connects cost; the labelled one is tried first.
	connectsRequiredPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Required Connects[^:\n]*:\s*(\d+)`),
		regexp.MustCompile(`(?i)Send a proposal for:?\s*(\d+)`),
	}
	connectsAvailablePattern = regexp.MustCompile(`(?i)Available Connects:\s*(\d+)`)
)

// extractActivity returns the "Activity on this job" items keyed by their
// lowercased title without a trailing colon.
func extractActivity(p *page) map[string]string {
	result := make(map[string]string)
	p.scope().Find(".client-activity-items .ca-item, .client-activity-items li").Each(func(_ int, item *goquery.Selection) {
		titleEl := item.Find(".title").First()
		valueEl := item.Find(".value").First()
		if titleEl.Length() == 0 || valueEl.Length() == 0 {
			return
		}
		key := strings.ToLower(strings.TrimSuffix(textOf(titleEl), ":"))
		key = strings.TrimSpace(key)
		if v := textOf(valueEl); key != "" && v != "" {
			if _, ok := result[key]; !ok {
				result[key] = v
			}
		}
	})
	return result
}

func extractBidRange(p *page) string {
	var found string
	p.scope().Find("h5 strong, h5").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		t := textOf(h)
		if strings.Contains(strings.ToLower(t), "bid range") {
			found = strings.TrimSpace(bidRangePrefix.ReplaceAllString(t, ""))
			return false
		}
		return true
	})
	return found
}

func extractConnects(p *page) (required, available string) {
	text := innerText(p.side())
	for _, rx := range connectsRequiredPatterns {
		if m := rx.FindStringSubmatch(text); m != nil {
			required = m[1]
			break
		}
	}
	if m := connectsAvailablePattern.FindStringSubmatch(text); m != nil {
		available = m[1]
	}
	return required, available
}
