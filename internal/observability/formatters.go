// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/rankcore/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidateFacts outputs a human-readable summary of extracted facts.
func (p *Printer) PrintCandidateFacts(facts *types.CandidateFacts) {
	if facts == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", facts.Name))
	sb.WriteString(fmt.Sprintf("Method:   %s\n", facts.Method))
	if facts.Contact.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", facts.Contact.Email))
	}
	if facts.Contact.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", facts.Contact.Location))
	}

	if len(facts.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(facts.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := facts.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s — %s", entry.Title, entry.Employer))
			if entry.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", entry.Duration))
			}
			sb.WriteString("\n")
		}
		if len(facts.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(facts.Experience)-maxItemsToShow))
		}
	}

	if len(facts.Skills) > 0 {
		skills := strings.Join(facts.Skills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nSkills:   %s\n", skills))
	}

	p.printBox("EXTRACTED CANDIDATE FACTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysisResult outputs the scored evaluation of one candidate.
func (p *Printer) PrintAnalysisResult(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", result.CandidateID))
	sb.WriteString(fmt.Sprintf("Final:      %5.1f\n", result.FinalScore))
	sb.WriteString(fmt.Sprintf("Compliance: %5.1f\n", result.ComplianceScore))
	sb.WriteString(fmt.Sprintf("Resume:     %5.1f\n", result.ResumeScore))
	sb.WriteString(fmt.Sprintf("Questions:  %5.1f\n", result.QuestioneryScore))

	if points := result.TopStrongPoints(types.MaxMatchReasons); len(points) > 0 {
		sb.WriteString("\nStrong points:\n")
		for _, point := range points {
			sb.WriteString(fmt.Sprintf("  + %s\n", point))
		}
	}
	if points := result.TopWeakPoints(types.MaxMatchReasons); len(points) > 0 {
		sb.WriteString("\nWeak points:\n")
		for _, point := range points {
			sb.WriteString(fmt.Sprintf("  - %s\n", point))
		}
	}

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankingRun outputs the ordered candidates of a ranking run.
func (p *Printer) PrintRankingRun(run *types.RankingRun) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:       %s\n", run.JobID))
	sb.WriteString(fmt.Sprintf("Version:   %d\n", run.RankingVersion))
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n", len(run.Candidates)))

	if len(run.Candidates) > 0 {
		sb.WriteString("\n")
	}
	count := min(len(run.Candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		ranked := run.Candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", ranked.Rank, ranked.CandidateID))
		rationale := ranked.Rationale
		if len(rationale) > 50 {
			rationale = rationale[:47] + "..."
		}
		if rationale != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", rationale))
		}
	}
	if len(run.Candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(run.Candidates)-maxItemsToShow))
	}

	p.printBox("RANKING RUN", strings.TrimSuffix(sb.String(), "\n"))
}
