// Package ranking classifies match scores and turns them into ordered, explained
// recommendations.
package ranking

import "github.com/jonathan/swipe-matcher/internal/types"

// threshold pairs a minimum overall score with the label it earns
type threshold struct {
	min   float64
	label types.RecommendationType
}

// thresholds is scanned in order; the first entry whose minimum is met wins
var thresholds = []threshold{
	{90, types.RecommendationPerfectMatch},
	{75, types.RecommendationHighMatch},
	{60, types.RecommendationGoodMatch},
	{40, types.RecommendationPotentialMatch},
}

// Classify maps an overall score to its recommendation type
func Classify(overall float64) types.RecommendationType {
	for _, t := range thresholds {
		if overall >= t.min {
			return t.label
		}
	}
	return types.RecommendationStretchRole
}
