package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/types"
)

const (
	strongComponent = 80.0
	weakComponent   = 50.0
)

var typeHeadlines = map[types.RecommendationType]string{
	types.RecommendationPerfectMatch:   "Excellent fit",
	types.RecommendationHighMatch:      "Strong fit",
	types.RecommendationGoodMatch:      "Good fit",
	types.RecommendationPotentialMatch: "Potential fit",
	types.RecommendationStretchRole:    "Stretch role",
}

// generateExplanation creates a brief explanation of the recommendation.
func generateExplanation(recType types.RecommendationType, score *types.MatchScore, result skills.MatchResult) string {
	parts := []string{fmt.Sprintf("%s (%.2f overall)", typeHeadlines[recType], score.OverallScore)}

	names := matchedNames(result)
	switch {
	case result.TotalRequired == 0:
		parts = append(parts, "No specific skills required")
	case len(names) == 0:
		parts = append(parts, "No skill matches")
	case score.Components.Skills >= strongComponent:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(names, ", ")))
	case score.Components.Skills >= weakComponent:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(names, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(names, ", ")))
	}

	if len(result.MissingCritical) > 0 {
		parts = append(parts, fmt.Sprintf("Missing required: %s", strings.Join(result.MissingCritical, ", ")))
	}

	return strings.Join(parts, ". ")
}

// namedComponent pairs a component label with its score, in weight order
type namedComponent struct {
	label string
	score float64
}

func componentList(c types.ComponentScores) []namedComponent {
	return []namedComponent{
		{"skills", c.Skills},
		{"experience", c.Experience},
		{"education", c.Education},
		{"location", c.Location},
		{"salary", c.Salary},
		{"job type", c.JobType},
		{"industry", c.Industry},
		{"company culture", c.Culture},
		{"career growth", c.Growth},
	}
}

func strengthPoints(c types.ComponentScores, result skills.MatchResult) []string {
	points := []string{}
	for _, nc := range componentList(c) {
		if nc.score >= strongComponent {
			points = append(points, fmt.Sprintf("Strong %s alignment (%.0f)", nc.label, nc.score))
		}
	}
	if len(result.Matched) > 0 && result.TotalRequired > 0 {
		points = append(points, fmt.Sprintf("Covers %d of %d listed skills", len(result.Matched), result.TotalRequired))
	}
	return points
}

func improvementSuggestions(c types.ComponentScores, result skills.MatchResult) []string {
	suggestions := []string{}
	for _, name := range result.MissingCritical {
		suggestions = append(suggestions, fmt.Sprintf("Build experience with %s", name))
	}
	for _, m := range result.Matched {
		if m.Credit < 1 && m.YearsRequired != nil {
			suggestions = append(suggestions, fmt.Sprintf("Deepen %s toward %.0f years", m.Name, *m.YearsRequired))
		}
	}
	if c.Experience < weakComponent {
		suggestions = append(suggestions, "Experience level is outside the role's range")
	}
	if c.Education < weakComponent {
		suggestions = append(suggestions, "Role asks for a higher education level")
	}
	return suggestions
}
