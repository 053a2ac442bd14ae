// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/types"
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
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatchScore outputs the component breakdown of a score.
func (p *Printer) PrintMatchScore(score *types.MatchScore, result skills.MatchResult) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %.2f\n", score.OverallScore))
	sb.WriteString(fmt.Sprintf("Version:  %s\n\n", score.CalculationVersion))

	c := score.Components
	rows := []struct {
		name   string
		score  float64
		weight float64
	}{
		{"Skills", c.Skills, score.Weights.Skills},
		{"Experience", c.Experience, score.Weights.Experience},
		{"Education", c.Education, score.Weights.Education},
		{"Location", c.Location, score.Weights.Location},
		{"Salary", c.Salary, score.Weights.Salary},
		{"Job type", c.JobType, score.Weights.JobType},
		{"Industry", c.Industry, score.Weights.Industry},
		{"Culture", c.Culture, score.Weights.Culture},
		{"Growth", c.Growth, score.Weights.Growth},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %-11s %6.2f  x %.2f\n", r.name, r.score, r.weight))
	}

	sb.WriteString(fmt.Sprintf("\nSkills matched: %d of %d\n", score.MatchedSkillsCount, score.TotalRequiredSkills))
	if len(result.MissingCritical) > 0 {
		sb.WriteString(fmt.Sprintf("Missing required: %s", truncateList(result.MissingCritical)))
	}

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top of a ranked feed.
func (p *Printer) PrintRecommendations(recs []types.AIRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total recommendations: %d\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rec.Rank, rec.JobID))
		sb.WriteString(fmt.Sprintf("    %.2f  %s\n", rec.RecommendationScore, rec.RecommendationType))
		if len(rec.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", truncateList(rec.MatchedSkills)))
		}
		if len(rec.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", truncateList(rec.MissingSkills)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("TOP RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSwipeResult outputs what a swipe did.
func (p *Printer) PrintSwipeResult(result *types.SwipeResult) {
	if result == nil || result.Swipe == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:        %s\n", result.Swipe.JobID))
	sb.WriteString(fmt.Sprintf("Direction:  %s\n", result.Swipe.Direction))
	if result.Swipe.MatchScore != nil {
		sb.WriteString(fmt.Sprintf("Score:      %.2f\n", *result.Swipe.MatchScore))
	}
	sb.WriteString(fmt.Sprintf("Today:      %d used, %d left\n", result.SwipesToday, result.RemainingToday))
	if result.Application != nil {
		sb.WriteString(fmt.Sprintf("Applied:    %s (%s)\n", result.Application.ID, result.Application.Status))
	}

	p.printBox("SWIPE", strings.TrimSuffix(sb.String(), "\n"))
}

func truncateList(items []string) string {
	s := strings.Join(items, ", ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
