// Package scoring computes the component scores of a candidate/job pair and
// aggregates them into the overall match score.
package scoring

import (
	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// Options tunes the scorers that depend on configuration
type Options struct {
	SearchRadiusKm float64
}

// Breakdown holds the rounded component scores and the skill match detail
type Breakdown struct {
	Components types.ComponentScores
	Skills     skills.MatchResult
}

// Compute runs every component scorer for the pair. It is pure: the same snapshots
// and options always yield bit-identical output.
func Compute(c *types.CandidateProfile, j *types.JobListing, opts Options) Breakdown {
	skillResult := skills.Match(c.Skills, j.RequiredSkills)

	components := types.ComponentScores{
		Skills:     skillResult.Score,
		Experience: Experience(c, j),
		Education:  Education(c, j),
		Location:   Location(opts.SearchRadiusKm)(c, j),
		Salary:     Salary(c, j),
		JobType:    JobType(c, j),
		Industry:   Industry(c, j),
		Culture:    Culture(c, j),
		Growth:     Growth(c, j),
	}

	return Breakdown{
		Components: RoundComponents(components),
		Skills:     skillResult,
	}
}

// Score computes the components and the overall score for the pair
func Score(c *types.CandidateProfile, j *types.JobListing, weights types.Weights, opts Options) (Breakdown, float64, error) {
	if err := ValidateWeights(weights); err != nil {
		return Breakdown{}, 0, err
	}
	b := Compute(c, j, opts)
	overall, err := Aggregate(b.Components, weights)
	if err != nil {
		return Breakdown{}, 0, err
	}
	return b, overall, nil
}
