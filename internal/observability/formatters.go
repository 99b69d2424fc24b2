// Package observability provides formatted output for verbose CLI mode and
// Prometheus metrics for evaluations and HTTP traffic.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList writes up to maxItemsToShow bullet items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintEvaluation outputs a human-readable summary of one evaluation.
func (p *Printer) PrintEvaluation(r *types.EvaluationResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:      %s\n", r.CandidateID))
	sb.WriteString(fmt.Sprintf("Job:            %s\n", r.JobID))
	sb.WriteString(fmt.Sprintf("Overall:        %.1f (base %.1f, bonus %+.1f)\n", r.OverallScore, r.BaseScore, r.InteractionBonus))
	sb.WriteString(fmt.Sprintf("Confidence:     %.2f\n", r.Confidence))
	sb.WriteString(fmt.Sprintf("Match level:    %s\n", r.MatchLevel))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", r.Recommendation))
	if r.Degraded {
		sb.WriteString("Mode:           degraded (lexical skill matching only)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Sections:\n")
	for _, s := range types.Sections {
		a, ok := r.Sections[s]
		if !ok {
			continue
		}
		marker := ""
		if a.MissingData {
			marker = " (missing data)"
		}
		sb.WriteString(fmt.Sprintf("  %-17s %5.1f  conf %.2f%s\n", s.Label(), a.Score, a.Confidence, marker))
	}
	sb.WriteString("\n")

	writeList(&sb, "Hard rejections", r.HardRejections)
	writeList(&sb, "Strengths", r.Strengths)
	writeList(&sb, "Concerns", r.Concerns)
	writeList(&sb, "Interactions", r.Interactions)
	writeList(&sb, "Next steps", r.NextSteps)

	p.printBox("CANDIDATE EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the top ranked results. results must already be ordered.
func (p *Printer) PrintRanking(jobID string, results []*types.EvaluationResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job: %s\n", jobID))
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.CandidateID))
		sb.WriteString(fmt.Sprintf("    Score: %.1f  %s / %s\n", r.OverallScore, r.MatchLevel, r.Recommendation))
		if len(r.HardRejections) > 0 {
			sb.WriteString(fmt.Sprintf("    Rejected: %s\n", strings.Join(r.HardRejections, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(results)-maxItemsToShow))
	}

	p.printBox("CANDIDATE RANKING", sb.String())
}
