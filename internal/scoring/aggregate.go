package scoring

import (
	"math"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// Aggregate combines component scores into the overall score.
// Weights are validated first; the result is clamped to [0,100] and rounded to two decimals.
func Aggregate(components types.ComponentScores, weights types.Weights) (float64, error) {
	if err := ValidateWeights(weights); err != nil {
		return 0, err
	}

	scores := components.Slice()
	total := 0.0
	for i, w := range weights.Slice() {
		total += w * clamp(scores[i])
	}
	return Round2(clamp(total)), nil
}

// Round2 rounds to two decimal places, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundComponents rounds every component to two decimals after clamping
func RoundComponents(c types.ComponentScores) types.ComponentScores {
	return types.ComponentScores{
		Skills:     Round2(clamp(c.Skills)),
		Experience: Round2(clamp(c.Experience)),
		Education:  Round2(clamp(c.Education)),
		Location:   Round2(clamp(c.Location)),
		Salary:     Round2(clamp(c.Salary)),
		JobType:    Round2(clamp(c.JobType)),
		Industry:   Round2(clamp(c.Industry)),
		Culture:    Round2(clamp(c.Culture)),
		Growth:     Round2(clamp(c.Growth)),
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
