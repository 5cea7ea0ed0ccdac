// Package prompting renders a profile and a job snapshot into the text sent to a provider.
// Everything here is pure: identical inputs produce byte-identical output.
package prompting

import (
	"strings"

	"github.com/jonathan/jobfit-assistant/internal/prompts"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

const (
	// MaxDescriptionLength bounds the description sent to the model, in runes.
	MaxDescriptionLength = 12000
	// PreviewDescriptionLength bounds the description shown in a preview, in runes.
	PreviewDescriptionLength = 2000
)

// BuildPrompt returns the instructions and input for analysing snap on behalf of profile.
func BuildPrompt(profile types.Profile, snap types.JobSnapshot) types.PromptPair {
	return types.PromptPair{
		Instructions: buildInstructions(profile),
		Input:        buildInput(snap),
	}
}

func buildInstructions(profile types.Profile) string {
	lines := []string{
		prompts.MustGet(prompts.AnalysisFile, "preamble"),
		"",
		"User profile name: " + profile.ProfileName,
	}
	if v := strings.TrimSpace(profile.Experience); v != "" {
		lines = append(lines, "Experience: "+v)
	}
	if v := strings.TrimSpace(profile.Location); v != "" {
		lines = append(lines, "Location: "+v)
	}
	lines = append(lines,
		"Role title: "+profile.RoleTitle,
		"Core skills: "+strings.Join(profile.CoreSkills, ", "),
		"Secondary skills: "+strings.Join(profile.SecondarySkills, ", "),
		"No-go skills (if heavily required then recommend SKIP): "+strings.Join(profile.NoGoSkills, ", "),
		"",
		"Proposal style rules:",
	)
	lines = append(lines, bullets(profile.ProposalStyleRules)...)
	lines = append(lines, "", "Red flags to watch for:")
	lines = append(lines, bullets(profile.RedFlags)...)
	lines = append(lines, "", prompts.MustGet(prompts.AnalysisFile, "output-schema"))

	return strings.Join(lines, "\n")
}

func buildInput(snap types.JobSnapshot) string {
	lines := []string{
		prompts.MustGet(prompts.AnalysisFile, "input-header"),
		"",
		"URL: " + snap.URL,
	}
	lines = append(lines, fieldLines(snap)...)
	lines = append(lines, "", "Description:", truncate(snap.Description, MaxDescriptionLength))

	return collapseBlankLines(lines)
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return out
}
