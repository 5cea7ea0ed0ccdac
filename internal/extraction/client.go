package extraction

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

var (
	paymentVerifiedPattern = regexp.MustCompile(`(?i)payment (method )?verified`)
	reviewsPattern         = regexp.MustCompile(`(?i)([\d.]+)\s+of\s+([\d,]+)\s+reviews?`)
	jobsPostedPattern      = regexp.MustCompile(`(?i)([\d,]+)\s+jobs?\s+posted`)
	hireRatePattern        = regexp.MustCompile(`(?i)([\d.]+%)\s+hire\s+rate`)
	openJobsPattern        = regexp.MustCompile(`(?i)([\d,]+)\s+open\s+jobs?`)
	totalSpentPattern      = regexp.MustCompile(`(?i)([$\d,.KkMm]+)\s*total\s*spent`)
	totalHiresPattern      = regexp.MustCompile(`(?i)([\d,]+)\s*hires?`)
	activeHiresPattern     = regexp.MustCompile(`(?i)([\d,]+)\s*active`)
	hourlyRatePattern      = regexp.MustCompile(`(?i)([$\d,.]+/hr)`)
	memberSincePattern     = regexp.MustCompile(`(?i)Member since\s+(.+)`)
)

// applyClient fills the "about the client" fields. Each probe is independent;
// without the client container none of them run.
func applyClient(p *page, snap *types.JobSnapshot) {
	about := p.side().Find(`[data-test="about-client-container"], .cfe-ui-job-about-client`).First()
	if about.Length() == 0 {
		return
	}

	text := innerText(about)
	if paymentVerifiedPattern.MatchString(text) {
		verified := true
		snap.ClientPaymentVerified = &verified
	}

	snap.ClientRating = textOf(about.Find(".air3-rating-value-text").First())

	if m := reviewsPattern.FindStringSubmatch(text); m != nil {
		snap.ClientReviewCount = m[1] + " of " + m[2] + " reviews"
	}

	if loc := about.Find(`[data-qa="client-location"]`).First(); loc.Length() > 0 {
		if strong := loc.Find("strong").First(); strong.Length() > 0 {
			snap.ClientLocation = textOf(strong)
		} else {
			snap.ClientLocation = textOf(loc)
		}
	}

	if stats := about.Find(`[data-qa="client-job-posting-stats"]`).First(); stats.Length() > 0 {
		snap.ClientJobsPosted = submatch(jobsPostedPattern, textOf(stats.Find("strong").First()))
		detail := stats.Find("div").First()
		if detail.Length() == 0 {
			detail = stats
		}
		dt := textOf(detail)
		snap.ClientHireRate = submatch(hireRatePattern, dt)
		snap.ClientOpenJobs = submatch(openJobsPattern, dt)
	}

	snap.ClientTotalSpent = probe(about, `[data-qa="client-spend"]`, totalSpentPattern)

	if hires := about.Find(`[data-qa="client-hires"]`).First(); hires.Length() > 0 {
		ht := textOf(hires)
		snap.ClientTotalHires = submatch(totalHiresPattern, ht)
		snap.ClientActiveHires = submatch(activeHiresPattern, ht)
	}

	snap.ClientAvgHourlyRate = probe(about, `[data-qa="client-hourly-rate"]`, hourlyRatePattern)
	snap.ClientTotalHours = textOf(about.Find(`[data-qa="client-hours"]`).First())
	snap.ClientIndustry = textOf(about.Find(`[data-qa="client-company-profile-industry"]`).First())
	snap.ClientCompanySize = textOf(about.Find(`[data-qa="client-company-profile-size"]`).First())

	if member := about.Find(`[data-qa="client-contract-date"]`).First(); member.Length() > 0 {
		mt := textOf(member)
		snap.ClientMemberSince = submatch(memberSincePattern, mt)
		if snap.ClientMemberSince == "" {
			snap.ClientMemberSince = mt
		}
	}
}

// probe applies rx to the text of the first element matching selector.
func probe(root *goquery.Selection, selector string, rx *regexp.Regexp) string {
	el := root.Find(selector).First()
	if el.Length() == 0 {
		return ""
	}
	return submatch(rx, textOf(el))
}

func submatch(rx *regexp.Regexp, s string) string {
	if m := rx.FindStringSubmatch(s); m != nil {
		return NormalizeSpace(m[1])
	}
	return ""
}
