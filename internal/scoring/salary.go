package scoring

import (
	"math"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// neutralScore is returned when either side gives no salary information
const neutralScore = 50.0

// Salary scores the overlap between the candidate's expectation and the job's range,
// as a fraction of the candidate's range. A zero job max means the range is open-ended.
func Salary(c *types.CandidateProfile, j *types.JobListing) float64 {
	if c.SalaryExpectation.IsZero() || j.Salary.IsZero() {
		return neutralScore
	}

	candMin := c.SalaryExpectation.Min
	candMax := c.SalaryExpectation.Max
	if candMax < candMin {
		// Only a floor was given
		candMax = candMin
	}

	jobMin := j.Salary.Min
	jobMax := j.Salary.Max
	if jobMax == 0 {
		jobMax = math.Inf(1)
	}
	if jobMax < jobMin {
		jobMin, jobMax = jobMax, jobMin
	}

	if candMax == candMin {
		if candMin >= jobMin && candMin <= jobMax {
			return 100
		}
		return 0
	}

	overlap := math.Min(candMax, jobMax) - math.Max(candMin, jobMin)
	if overlap <= 0 {
		return 0
	}
	return 100 * overlap / (candMax - candMin)
}
