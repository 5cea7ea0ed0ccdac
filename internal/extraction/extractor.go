// Package extraction turns a rendered Upwork job page into a JobSnapshot.
//
// Every field is resolved by an ordered chain of strategies; the first one that
// yields a non-empty value wins. A missing field is never an error. The only
// failure is a document with nothing in it.
package extraction

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// ErrEmptyDocument is returned when there is no document or it has no content at all.
var ErrEmptyDocument = errors.New("document is empty")

// page is the read-only view of a document shared by all strategies of one extraction.
type page struct {
	doc     *goquery.Document
	content *goquery.Selection // .job-details-content; may be empty
	sidebar *goquery.Selection // .sidebar inside content; may be empty

	nuxt       []gjson.Result
	nuxtLoaded bool
}

func newPage(doc *goquery.Document) *page {
	content := doc.Find(".job-details-content").First()
	return &page{
		doc:     doc,
		content: content,
		sidebar: content.Find(".sidebar").First(),
	}
}

// scope is the job content container, or the whole document when the layout is unknown.
func (p *page) scope() *goquery.Selection {
	if p.content.Length() > 0 {
		return p.content
	}
	return p.doc.Selection
}

// side is where connects and client info live.
func (p *page) side() *goquery.Selection {
	if p.sidebar.Length() > 0 {
		return p.sidebar
	}
	return p.scope()
}

// Extract reads a job snapshot out of doc. It never modifies doc, and calling it
// twice on the same document yields identical snapshots.
func Extract(doc *goquery.Document, pageURL string) (types.JobSnapshot, error) {
	if isEmpty(doc) {
		return types.JobSnapshot{}, ErrEmptyDocument
	}

	p := newPage(doc)

	snap := types.JobSnapshot{
		URL:         pageURL,
		Title:       extractTitle(p),
		Description: extractDescription(p),
		PostedDate:  extractPostedDate(p),
		JobLocation: extractJobLocation(p),
		BidRange:    extractBidRange(p),
	}

	f := extractFeatures(p)
	snap.BudgetText = f.budget
	snap.ExperienceLevel = f.experience
	snap.ProjectType = f.projectType

	snap.Skills = extractSkills(p)

	activity := extractActivity(p)
	snap.Proposals = activity["proposals"]
	snap.LastViewedByClient = activity["last viewed by client"]
	snap.Hires = activity["hires"]
	snap.Interviewing = activity["interviewing"]
	snap.InvitesSent = activity["invites sent"]
	snap.UnansweredInvites = activity["unanswered invites"]

	snap.ConnectsRequired, snap.ConnectsAvailable = extractConnects(p)

	applyClient(p, &snap)

	snap.PreferredQualifications = extractQualifications(p)
	snap.RequiredQuestions = extractQuestions(p)

	return snap, nil
}

// ExtractHTML parses raw HTML and extracts a snapshot from it.
func ExtractHTML(html, pageURL string) (types.JobSnapshot, error) {
	if strings.TrimSpace(html) == "" {
		return types.JobSnapshot{}, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.JobSnapshot{}, err
	}
	return Extract(doc, pageURL)
}

func isEmpty(doc *goquery.Document) bool {
	if doc == nil || len(doc.Nodes) == 0 {
		return true
	}
	if doc.Find("body *").Length() > 0 {
		return false
	}
	return NormalizeSpace(doc.Find("body").Text()) == "" &&
		NormalizeSpace(doc.Find("title").Text()) == ""
}
