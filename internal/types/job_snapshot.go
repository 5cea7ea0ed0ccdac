// Package types provides type definitions for structured data used throughout the jobfit-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TitlePlaceholder is used when no extraction strategy yields a job title.
const TitlePlaceholder = "Job title cannot be parsed!"

// JobSnapshot represents a job posting as observed on the page at extraction time.
// Optional string fields are either non-empty or the zero value; the zero value
// is the only "unknown" signal and is omitted from JSON.
type JobSnapshot struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PostedDate  string `json:"postedDate,omitempty"`
	JobLocation string `json:"jobLocation,omitempty"`

	// Budget & contract info
	BudgetText      string `json:"budgetText,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	ProjectType     string `json:"projectType,omitempty"`

	Skills []string `json:"skills,omitempty"`

	// Activity on this job
	Proposals          string `json:"proposals,omitempty"`
	LastViewedByClient string `json:"lastViewedByClient,omitempty"`
	Hires              string `json:"hires,omitempty"`
	Interviewing       string `json:"interviewing,omitempty"`
	InvitesSent        string `json:"invitesSent,omitempty"`
	UnansweredInvites  string `json:"unansweredInvites,omitempty"`
	BidRange           string `json:"bidRange,omitempty"`

	// Connects
	ConnectsRequired  string `json:"connectsRequired,omitempty"`
	ConnectsAvailable string `json:"connectsAvailable,omitempty"`

	// About the client
	ClientLocation        string `json:"clientLocation,omitempty"`
	ClientPaymentVerified *bool  `json:"clientPaymentVerified,omitempty"`
	ClientRating          string `json:"clientRating,omitempty"`
	ClientReviewCount     string `json:"clientReviewCount,omitempty"`
	ClientJobsPosted      string `json:"clientJobsPosted,omitempty"`
	ClientHireRate        string `json:"clientHireRate,omitempty"`
	ClientOpenJobs        string `json:"clientOpenJobs,omitempty"`
	ClientTotalSpent      string `json:"clientTotalSpent,omitempty"`
	ClientTotalHires      string `json:"clientTotalHires,omitempty"`
	ClientActiveHires     string `json:"clientActiveHires,omitempty"`
	ClientAvgHourlyRate   string `json:"clientAvgHourlyRate,omitempty"`
	ClientTotalHours      string `json:"clientTotalHours,omitempty"`
	ClientIndustry        string `json:"clientIndustry,omitempty"`
	ClientCompanySize     string `json:"clientCompanySize,omitempty"`
	ClientMemberSince     string `json:"clientMemberSince,omitempty"`

	PreferredQualifications []string `json:"preferredQualifications,omitempty"`
	RequiredQuestions       []string `json:"requiredQuestions,omitempty"`
}

// HasClientInfo reports whether any "about the client" field is present.
func (j *JobSnapshot) HasClientInfo() bool {
	return j.ClientPaymentVerified != nil ||
		j.ClientLocation != "" ||
		j.ClientRating != "" ||
		j.ClientReviewCount != "" ||
		j.ClientJobsPosted != "" ||
		j.ClientHireRate != "" ||
		j.ClientOpenJobs != "" ||
		j.ClientTotalSpent != "" ||
		j.ClientTotalHires != "" ||
		j.ClientActiveHires != "" ||
		j.ClientAvgHourlyRate != "" ||
		j.ClientTotalHours != "" ||
		j.ClientIndustry != "" ||
		j.ClientCompanySize != "" ||
		j.ClientMemberSince != ""
}
