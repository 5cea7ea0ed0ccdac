package prompting

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// FormatPreview renders a snapshot as the human-readable summary shown before
// analysis. Absent fields produce no line at all.
func FormatPreview(snap types.JobSnapshot) string {
	lines := fieldLines(snap)
	lines = append(lines, "", truncate(snap.Description, PreviewDescriptionLength))
	return collapseBlankLines(lines)
}

// fieldLines renders every present field as one "Label: value" line, in groups
// separated by blank entries.
func fieldLines(snap types.JobSnapshot) []string {
	lines := []string{"Title: " + snap.Title}
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	add("Posted", snap.PostedDate)
	add("Job location", snap.JobLocation)
	add("Budget", snap.BudgetText)
	add("Experience", snap.ExperienceLevel)
	add("Project type", snap.ProjectType)
	add("Skills", strings.Join(snap.Skills, ", "))
	add("Preferred qualifications", strings.Join(snap.PreferredQualifications, "; "))

	lines = append(lines, "")
	add("Proposals", snap.Proposals)
	add("Last viewed by client", snap.LastViewedByClient)
	add("Hires", snap.Hires)
	add("Interviewing", snap.Interviewing)
	add("Invites sent", snap.InvitesSent)
	add("Unanswered invites", snap.UnansweredInvites)
	add("Bid range", snap.BidRange)

	lines = append(lines, "")
	add("Connects to submit", snap.ConnectsRequired)
	add("Available connects", snap.ConnectsAvailable)

	if snap.HasClientInfo() {
		lines = append(lines, "", "Client Info:")
		if snap.ClientPaymentVerified != nil {
			add("Payment verified", yesNo(*snap.ClientPaymentVerified))
		}
		add("Client rating", snap.ClientRating)
		add("Reviews", snap.ClientReviewCount)
		add("Client location", snap.ClientLocation)
		add("Jobs posted", snap.ClientJobsPosted)
		add("Hire rate", snap.ClientHireRate)
		add("Open jobs", snap.ClientOpenJobs)
		add("Total spent", snap.ClientTotalSpent)
		if snap.ClientTotalHires != "" {
			hires := snap.ClientTotalHires
			if snap.ClientActiveHires != "" {
				hires += ", " + snap.ClientActiveHires + " active"
			}
			add("Total hires", hires)
		} else {
			add("Active hires", snap.ClientActiveHires)
		}
		add("Avg hourly rate paid", snap.ClientAvgHourlyRate)
		add("Total hours", snap.ClientTotalHours)
		add("Industry", snap.ClientIndustry)
		add("Company size", snap.ClientCompanySize)
		add("Member since", snap.ClientMemberSince)
	}

	if len(snap.RequiredQuestions) > 0 {
		lines = append(lines, "")
		add("Required questions", strings.Join(snap.RequiredQuestions, "; "))
	}

	return lines
}

// collapseBlankLines joins lines, keeping at most one blank line in a row, and trims the result.
func collapseBlankLines(lines []string) string {
	out := make([]string, 0, len(lines))
	lastBlank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !lastBlank {
				out = append(out, "")
			}
			lastBlank = true
			continue
		}
		out = append(out, line)
		lastBlank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
