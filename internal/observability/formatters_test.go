package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintMatchScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := &types.MatchScore{
		OverallScore:        66.67,
		CalculationVersion:  "1.0",
		Components:          types.ComponentScores{Skills: 66.67},
		Weights:             types.Weights{Skills: 1},
		MatchedSkillsCount:  1,
		TotalRequiredSkills: 2,
	}
	p.PrintMatchScore(score, skills.MatchResult{MissingCritical: []string{"Go"}})
	output := buf.String()

	assert.Contains(t, output, "MATCH SCORE")
	assert.Contains(t, output, "66.67")
	assert.Contains(t, output, "Skills matched: 1 of 2")
	assert.Contains(t, output, "Missing required: Go")
}

func TestPrintMatchScore_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatchScore(nil, skills.MatchResult{})
	assert.Empty(t, buf.String())
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := make([]types.AIRecommendation, 7)
	for i := range recs {
		recs[i] = types.AIRecommendation{
			JobID:               uuid.New(),
			Rank:                i + 1,
			RecommendationScore: 90 - float64(i)*5,
			RecommendationType:  types.RecommendationHighMatch,
			MatchedSkills:       []string{"Go", "Kubernetes"},
		}
	}
	recs[0].MissingSkills = []string{"Rust"}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.Contains(t, output, "TOP RECOMMENDATIONS")
	assert.Contains(t, output, "Total recommendations: 7")
	assert.Contains(t, output, "#1")
	assert.Contains(t, output, "Go, Kubernetes")
	assert.Contains(t, output, "Missing: Rust")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "#6")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecommendations(nil)
	assert.Empty(t, buf.String())
}

func TestPrintSwipeResult(t *testing.T) {
	var buf bytes.Buffer
	score := 81.5
	res := &types.SwipeResult{
		Swipe:          &types.Swipe{JobID: uuid.New(), Direction: types.SwipeRight, MatchScore: &score},
		Application:    &types.Application{ID: uuid.New(), Status: types.StatusSubmitted},
		SwipesToday:    3,
		RemainingToday: 47,
	}
	NewPrinter(&buf).PrintSwipeResult(res)
	output := buf.String()

	assert.Contains(t, output, "SWIPE")
	assert.Contains(t, output, "right")
	assert.Contains(t, output, "81.50")
	assert.Contains(t, output, "3 used, 47 left")
	assert.Contains(t, output, "submitted")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
