// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxRawErrorLines bounds the vendor payload echoed after a provider failure
	maxRawErrorLines = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintSnapshot outputs the headline fields of an extracted job.
func (p *Printer) PrintSnapshot(snap *types.JobSnapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", snap.Title))
	sb.WriteString(fmt.Sprintf("URL:      %s\n", snap.URL))
	writeOptional(&sb, "Budget:   ", snap.BudgetText)
	writeOptional(&sb, "Level:    ", snap.ExperienceLevel)
	writeOptional(&sb, "Type:     ", snap.ProjectType)
	writeOptional(&sb, "Posted:   ", snap.PostedDate)
	writeOptional(&sb, "Connects: ", snap.ConnectsRequired)

	if len(snap.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		writeList(&sb, snap.Skills, maxItemsToShow)
	}

	if snap.HasClientInfo() {
		sb.WriteString("\nClient:\n")
		if snap.ClientPaymentVerified != nil {
			status := "unverified"
			if *snap.ClientPaymentVerified {
				status = "verified"
			}
			sb.WriteString(fmt.Sprintf("  Payment %s\n", status))
		}
		writeOptional(&sb, "  Location: ", snap.ClientLocation)
		writeOptional(&sb, "  Spent:    ", snap.ClientTotalSpent)
		writeOptional(&sb, "  Hires:    ", snap.ClientHireRate)
	}

	sb.WriteString(fmt.Sprintf("\nDescription: %d chars", len([]rune(snap.Description))))

	p.printBox("JOB SNAPSHOT", sb.String())
}

// PrintAnalysis outputs the validated model verdict and both proposals.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	verdict := "❌ SKIP"
	if result.ShouldApply {
		verdict = "✅ APPLY"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Verdict:   %s\n", verdict))
	sb.WriteString(fmt.Sprintf("Fit score: %.0f/100\n", result.FitScore))
	writeOptional(&sb, "Bid:       ", result.BidSuggestion)

	sections := []struct {
		heading string
		items   []string
	}{
		{"Key reasons", result.KeyReasons},
		{"Risks", result.Risks},
		{"Questions to ask", result.QuestionsToAsk},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", s.heading))
		writeList(&sb, s.items, maxItemsToShow)
	}

	p.printBox("ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
	p.printBox("SHORT PROPOSAL", wrap(result.ProposalShort, boxWidth-4))
	p.printBox("FULL PROPOSAL", wrap(result.ProposalFull, boxWidth-4))
}

// PrintProviderError outputs a provider failure with a bounded excerpt of the raw body.
func (p *Printer) PrintProviderError(pe *llm.ProviderError) {
	if pe == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Provider: %s\n", pe.Provider.DisplayName()))
	if pe.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf("Status:   %d\n", pe.StatusCode))
	}
	sb.WriteString(fmt.Sprintf("Message:  %s", pe.Message))

	if raw := strings.TrimSpace(pe.RawBody); raw != "" {
		lines := strings.Split(wrap(raw, boxWidth-4), "\n")
		sb.WriteString("\n\nRaw response:\n")
		sb.WriteString(strings.Join(lines[:min(len(lines), maxRawErrorLines)], "\n"))
		if len(lines) > maxRawErrorLines {
			sb.WriteString(fmt.Sprintf("\n... %d more lines", len(lines)-maxRawErrorLines))
		}
	}

	p.printBox("⚠ PROVIDER ERROR", sb.String())
}

// PrintConnection outputs one connection test outcome on a single line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintConnection(provider llm.Provider, message string, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "✗ %-8s %s\n", provider, err.Error())
		return
	}
	fmt.Fprintf(p.out, "✓ %-8s %s\n", provider, message)
}

func writeOptional(sb *strings.Builder, label, value string) {
	if value != "" {
		sb.WriteString(label + value + "\n")
	}
}

func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// wrap breaks text into lines of at most width runes on word boundaries,
// keeping existing line breaks.
func wrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
