// Package skills scores how well a candidate's skill set covers a job's weighted requirements.
package skills

import (
	"github.com/jonathan/swipe-matcher/internal/parsing"
	"github.com/jonathan/swipe-matcher/internal/types"
)

const (
	// Importance multipliers applied to each requirement's weight
	multRequired   = 1.0
	multPreferred  = 0.6
	multNiceToHave = 0.3

	// Years shortfall beyond this fraction of the requirement scales the credit down
	shortfallThreshold = 0.5
)

// MatchedSkill is a requirement the candidate covers, with the credit it earned
type MatchedSkill struct {
	Name           string   `json:"name"`
	Importance     string   `json:"importance"`
	CandidateYears *float64 `json:"candidate_years,omitempty"`
	YearsRequired  *float64 `json:"years_required,omitempty"`
	Credit         float64  `json:"credit"` // fraction of the requirement's weight in [0,1]
}

// MatchResult is the skill component score and its breakdown
type MatchResult struct {
	Score           float64        `json:"score"`
	Matched         []MatchedSkill `json:"matched"`
	MissingCritical []string       `json:"missing_critical"`
	Missing         []string       `json:"missing"`
	TotalRequired   int            `json:"total_required"`
}

// ImportanceMultiplier returns the multiplier for an importance level.
// Unknown levels count as required.
func ImportanceMultiplier(importance string) float64 {
	switch importance {
	case types.ImportancePreferred:
		return multPreferred
	case types.ImportanceNiceToHave:
		return multNiceToHave
	default:
		return multRequired
	}
}

// Match computes the weighted skill coverage of reqs by candidate.
// Skills are compared by normalized name. The result lists matched skills in
// requirement order.
func Match(candidate []types.CandidateSkill, reqs []types.SkillRequirement) MatchResult {
	result := MatchResult{
		Matched:         []MatchedSkill{},
		MissingCritical: []string{},
		Missing:         []string{},
	}

	reqs = parsing.NormalizeSkillRequirements(reqs)
	result.TotalRequired = len(reqs)
	if len(reqs) == 0 {
		result.Score = 100
		return result
	}

	have := make(map[string]types.CandidateSkill, len(candidate))
	for _, skill := range parsing.NormalizeCandidateSkills(candidate) {
		have[parsing.SkillKey(skill.Name)] = skill
	}

	numerator := 0.0
	denominator := 0.0
	for _, req := range reqs {
		weight := req.Weight
		if weight < 0 {
			weight = 0
		}
		amount := weight * ImportanceMultiplier(req.Importance)
		denominator += amount

		skill, ok := have[parsing.SkillKey(req.Name)]
		if !ok {
			result.Missing = append(result.Missing, req.Name)
			if req.Importance == types.ImportanceRequired || req.Importance == "" {
				result.MissingCritical = append(result.MissingCritical, req.Name)
			}
			continue
		}

		credit := yearsCredit(skill.Years, req.YearsRequired)
		numerator += amount * credit
		result.Matched = append(result.Matched, MatchedSkill{
			Name:           req.Name,
			Importance:     req.Importance,
			CandidateYears: skill.Years,
			YearsRequired:  req.YearsRequired,
			Credit:         credit,
		})
	}

	switch {
	case len(have) == 0:
		result.Score = 0
	case denominator == 0:
		// Every requirement carries zero weight
		result.Score = 100
	default:
		result.Score = 100 * numerator / denominator
	}
	return result
}

// yearsCredit returns the fraction of credit earned for a matched skill.
// Unknown candidate years, or no years requirement, earn full credit.
func yearsCredit(candidateYears, required *float64) float64 {
	if candidateYears == nil || required == nil || *required <= 0 {
		return 1
	}
	ratio := *candidateYears / *required
	if ratio >= shortfallThreshold {
		return 1
	}
	factor := ratio / shortfallThreshold
	if factor < 0 {
		return 0
	}
	return factor
}
