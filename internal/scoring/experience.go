package scoring

import (
	"strings"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// levelRanges gives the default years band for a job's experience level
// when explicit bounds are missing
var levelRanges = map[string][2]*float64{
	"entry":     {years(0), years(2)},
	"mid":       {years(2), years(5)},
	"senior":    {years(5), years(10)},
	"lead":      {years(8), nil},
	"executive": {years(10), nil},
}

func years(v float64) *float64 { return &v }

// Experience scores candidate years against the job's band.
// Full marks inside [min,max]. Outside, the score decays linearly to 0 over twice the
// band width; a zero-width band decays over one year and a one-sided band over two.
func Experience(c *types.CandidateProfile, j *types.JobListing) float64 {
	lo, hi := j.MinExperienceYears, j.MaxExperienceYears
	if lo == nil && hi == nil {
		if band, ok := levelRanges[strings.ToLower(j.ExperienceLevel)]; ok {
			lo, hi = band[0], band[1]
		}
	}
	if lo == nil && hi == nil {
		return 100
	}
	if lo != nil && hi != nil && *hi < *lo {
		lo, hi = hi, lo
	}

	span := 2.0
	if lo != nil && hi != nil {
		width := *hi - *lo
		if width > 0 {
			span = 2 * width
		} else {
			span = 1
		}
	}

	e := c.ExperienceYears
	var distance float64
	switch {
	case lo != nil && e < *lo:
		distance = *lo - e
	case hi != nil && e > *hi:
		distance = e - *hi
	default:
		return 100
	}

	score := 100 * (1 - distance/span)
	if score < 0 {
		return 0
	}
	return score
}
