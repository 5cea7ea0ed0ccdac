package prompting

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

func testProfile() types.Profile {
	return types.Profile{
		ProfileName:        "Ana Silva",
		Experience:         "5 years",
		RoleTitle:          "Frontend engineer",
		CoreSkills:         []string{"React", "TypeScript"},
		SecondarySkills:    []string{"Vite"},
		NoGoSkills:         []string{"WordPress"},
		ProposalStyleRules: []string{"Be short.", "Ask 3 questions.", "Offer a paid discovery."},
		RedFlags:           []string{"Free trial work", "Tiny budget"},
	}
}

func fullSnapshot() types.JobSnapshot {
	verified := true
	return types.JobSnapshot{
		URL:                     "https://www.upwork.com/jobs/~01abc",
		Title:                   "Build a React dashboard",
		Description:             "Need charts.\n\nAnd filters.",
		PostedDate:              "2 hours ago",
		JobLocation:             "Worldwide",
		BudgetText:              "$500 (Fixed-price)",
		ExperienceLevel:         "Intermediate",
		ProjectType:             "One-time project",
		Skills:                  []string{"React", "Chart.js"},
		Proposals:               "5 to 10",
		LastViewedByClient:      "1 hour ago",
		Hires:                   "0",
		Interviewing:            "1",
		InvitesSent:             "3",
		UnansweredInvites:       "2",
		BidRange:                "High $800 | Avg $450 | Low $200",
		ConnectsRequired:        "16",
		ConnectsAvailable:       "120",
		ClientLocation:          "Germany",
		ClientPaymentVerified:   &verified,
		ClientRating:            "4.9",
		ClientReviewCount:       "4.9 of 27 reviews",
		ClientJobsPosted:        "40",
		ClientHireRate:          "75%",
		ClientOpenJobs:          "2",
		ClientTotalSpent:        "$25K",
		ClientTotalHires:        "31",
		ClientActiveHires:       "4",
		ClientAvgHourlyRate:     "$42.50/hr",
		ClientTotalHours:        "1,200 hours",
		ClientIndustry:          "Tech & IT",
		ClientCompanySize:       "Mid-sized company",
		ClientMemberSince:       "Mar 15, 2019",
		PreferredQualifications: []string{"Talent type: Independent"},
		RequiredQuestions:       []string{"Describe a similar project"},
	}
}

// optionalLabels maps each optional snapshot field to the label its line starts with.
var optionalLabels = map[string]string{
	"PostedDate":              "Posted: ",
	"JobLocation":             "Job location: ",
	"BudgetText":              "Budget: ",
	"ExperienceLevel":         "Experience: ",
	"ProjectType":             "Project type: ",
	"Skills":                  "Skills: ",
	"Proposals":               "Proposals: ",
	"LastViewedByClient":      "Last viewed by client: ",
	"Hires":                   "Hires: ",
	"Interviewing":            "Interviewing: ",
	"InvitesSent":             "Invites sent: ",
	"UnansweredInvites":       "Unanswered invites: ",
	"BidRange":                "Bid range: ",
	"ConnectsRequired":        "Connects to submit: ",
	"ConnectsAvailable":       "Available connects: ",
	"ClientLocation":          "Client location: ",
	"ClientPaymentVerified":   "Payment verified: ",
	"ClientRating":            "Client rating: ",
	"ClientReviewCount":       "Reviews: ",
	"ClientJobsPosted":        "Jobs posted: ",
	"ClientHireRate":          "Hire rate: ",
	"ClientOpenJobs":          "Open jobs: ",
	"ClientTotalSpent":        "Total spent: ",
	"ClientTotalHires":        "Total hires: ",
	"ClientActiveHires":       "Active hires: ",
	"ClientAvgHourlyRate":     "Avg hourly rate paid: ",
	"ClientTotalHours":        "Total hours: ",
	"ClientIndustry":          "Industry: ",
	"ClientCompanySize":       "Company size: ",
	"ClientMemberSince":       "Member since: ",
	"PreferredQualifications": "Preferred qualifications: ",
	"RequiredQuestions":       "Required questions: ",
}

func hasLine(text, prefix string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func TestBuildPrompt_Instructions(t *testing.T) {
	pair := BuildPrompt(testProfile(), fullSnapshot())

	assert.True(t, strings.HasPrefix(pair.Instructions, "You are an Upwork job application assistant.\nReturn STRICT JSON only."))
	assert.Contains(t, pair.Instructions, "User profile name: Ana Silva\n")
	assert.Contains(t, pair.Instructions, "Experience: 5 years\n")
	assert.NotContains(t, pair.Instructions, "Location:")
	assert.Contains(t, pair.Instructions, "Role title: Frontend engineer\n")
	assert.Contains(t, pair.Instructions, "Core skills: React, TypeScript\n")
	assert.Contains(t, pair.Instructions, "No-go skills (if heavily required then recommend SKIP): WordPress\n")
	assert.Contains(t, pair.Instructions, "Proposal style rules:\n- Be short.\n- Ask 3 questions.\n- Offer a paid discovery.\n")
	assert.Contains(t, pair.Instructions, "Red flags to watch for:\n- Free trial work\n- Tiny budget\n")
	assert.True(t, strings.HasSuffix(pair.Instructions, "\"bidSuggestion\": string\n}"))
}

func TestBuildPrompt_Input(t *testing.T) {
	pair := BuildPrompt(testProfile(), fullSnapshot())

	assert.True(t, strings.HasPrefix(pair.Input, "Analyze this Upwork job and produce the JSON output schema exactly.\n\nURL: https://www.upwork.com/jobs/~01abc\nTitle: Build a React dashboard\n"))
	assert.Contains(t, pair.Input, "Payment verified: Yes")
	assert.Contains(t, pair.Input, "Total hires: 31, 4 active")
	assert.Contains(t, pair.Input, "Client Info:")
	assert.True(t, strings.HasSuffix(pair.Input, "Description:\nNeed charts.\n\nAnd filters."))
	assert.NotContains(t, pair.Input, "\n\n\n")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	first := BuildPrompt(testProfile(), fullSnapshot())
	second := BuildPrompt(testProfile(), fullSnapshot())
	assert.Equal(t, first, second)
}

func TestBuildPrompt_TruncatesDescription(t *testing.T) {
	snap := types.JobSnapshot{Title: "t", Description: strings.Repeat("é", MaxDescriptionLength+50)}

	pair := BuildPrompt(testProfile(), snap)
	assert.Contains(t, pair.Input, strings.Repeat("é", MaxDescriptionLength)+"...")
	assert.NotContains(t, pair.Input, strings.Repeat("é", MaxDescriptionLength+1))
}

func TestBuildPrompt_BudgetLine(t *testing.T) {
	profile := types.Profile{ProfileName: "Ana", RoleTitle: "Dev", CoreSkills: []string{"React"}}
	snap := types.JobSnapshot{Title: "Build a React dashboard", BudgetText: "$500 (Fixed-price)"}

	pair := BuildPrompt(profile, snap)
	assert.True(t, hasLine(pair.Input, "Budget: $500 (Fixed-price)"))
	assert.Contains(t, pair.Instructions, "Core skills: React\n")
}

// Each optional field's label appears exactly when the field is present.
func TestFieldLines_PresentIffSet(t *testing.T) {
	full := fullSnapshot()
	fullValue := reflect.ValueOf(full)

	for field, label := range optionalLabels {
		t.Run(field, func(t *testing.T) {
			only := types.JobSnapshot{Title: "t", Description: "d"}
			reflect.ValueOf(&only).Elem().FieldByName(field).Set(fullValue.FieldByName(field))

			preview := FormatPreview(only)
			input := BuildPrompt(testProfile(), only).Input
			assert.True(t, hasLine(preview, label), "preview should contain %q", label)
			assert.True(t, hasLine(input, label), "input should contain %q", label)

			empty := types.JobSnapshot{Title: "t", Description: "d"}
			assert.False(t, hasLine(FormatPreview(empty), label))
			assert.False(t, hasLine(BuildPrompt(testProfile(), empty).Input, label))
		})
	}
}

func TestFieldLines_ActiveHiresFoldIntoTotal(t *testing.T) {
	snap := types.JobSnapshot{Title: "t", ClientTotalHires: "31", ClientActiveHires: "4"}
	input := BuildPrompt(testProfile(), snap).Input
	assert.True(t, hasLine(input, "Total hires: 31, 4 active"))
	assert.False(t, hasLine(input, "Active hires: "))

	snap.ClientTotalHires = ""
	input = BuildPrompt(testProfile(), snap).Input
	assert.Contains(t, input, "Client Info:\nActive hires: 4")
	assert.False(t, hasLine(input, "Total hires: "))
}

func TestFormatPreview_Minimal(t *testing.T) {
	preview := FormatPreview(types.JobSnapshot{Title: "Only title", Description: "Body"})
	assert.Equal(t, "Title: Only title\n\nBody", preview)
}

func TestFormatPreview_ClientInfoHeaderOnlyWithClientFields(t *testing.T) {
	snap := types.JobSnapshot{Title: "t", BudgetText: "$5"}
	assert.NotContains(t, FormatPreview(snap), "Client Info:")

	snap.ClientIndustry = "Retail"
	preview := FormatPreview(snap)
	require.Contains(t, preview, "Client Info:")
	assert.Contains(t, preview, "Client Info:\nIndustry: Retail")
}

func TestFormatPreview_TruncatesDescription(t *testing.T) {
	snap := types.JobSnapshot{Title: "t", Description: strings.Repeat("a", PreviewDescriptionLength+1)}
	preview := FormatPreview(snap)
	assert.True(t, strings.HasSuffix(preview, strings.Repeat("a", PreviewDescriptionLength)+"..."))
}

func TestFormatPreview_NoRunsOfBlankLines(t *testing.T) {
	preview := FormatPreview(fullSnapshot())
	assert.NotContains(t, preview, "\n\n\n")
	assert.True(t, strings.HasPrefix(preview, "Title: Build a React dashboard\nPosted: 2 hours ago\n"))
}
