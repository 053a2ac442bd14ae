package scoring

import (
	"strings"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// degreeRank maps education levels to numeric ranks for comparison
var degreeRank = map[string]int{
	types.EducationHighSchool: 0,
	types.EducationAssociate:  1,
	types.EducationBachelor:   2,
	types.EducationMaster:     3,
	types.EducationDoctorate:  4,
	"phd":                     4,
}

// penaltyPerLevel is subtracted for every level the candidate falls short
const penaltyPerLevel = 25.0

// Education scores the candidate's highest level against the job's minimum
func Education(c *types.CandidateProfile, j *types.JobListing) float64 {
	required := strings.ToLower(strings.TrimSpace(j.EducationLevel))
	if required == "" || required == types.EducationAny {
		return 100
	}
	reqRank, ok := degreeRank[required]
	if !ok {
		return 100
	}

	candRank, ok := degreeRank[strings.ToLower(strings.TrimSpace(c.EducationLevel))]
	if !ok {
		candRank = -1
	}
	if candRank >= reqRank {
		return 100
	}

	score := 100 - penaltyPerLevel*float64(reqRank-candRank)
	if score < 0 {
		return 0
	}
	return score
}
