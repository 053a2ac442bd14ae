package scoring

import (
	"math"

	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0
const weightTolerance = 1e-6

// DefaultWeights returns the default component weight vector
func DefaultWeights() types.Weights {
	return types.Weights{
		Skills:     0.30,
		Experience: 0.25,
		Education:  0.10,
		Location:   0.10,
		Salary:     0.10,
		JobType:    0.05,
		Industry:   0.05,
		Culture:    0.03,
		Growth:     0.02,
	}
}

// ValidateWeights checks that every weight is non-negative and that the vector sums to 1
func ValidateWeights(w types.Weights) error {
	sum := 0.0
	for _, v := range w.Slice() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &apperrors.InvalidWeightsError{Sum: sumOf(w), Message: "weights must be non-negative finite numbers"}
		}
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return &apperrors.InvalidWeightsError{Sum: sum, Message: "weights must sum to 1.0"}
	}
	return nil
}

func sumOf(w types.Weights) float64 {
	sum := 0.0
	for _, v := range w.Slice() {
		sum += v
	}
	return sum
}
