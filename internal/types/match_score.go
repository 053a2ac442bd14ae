//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Weights is the per-component weight vector used by the aggregator.
// Every weight must be non-negative and the vector must sum to 1.0.
type Weights struct {
	Skills     float64 `json:"skills" koanf:"skills"`
	Experience float64 `json:"experience" koanf:"experience"`
	Education  float64 `json:"education" koanf:"education"`
	Location   float64 `json:"location" koanf:"location"`
	Salary     float64 `json:"salary" koanf:"salary"`
	JobType    float64 `json:"job_type" koanf:"job_type"`
	Industry   float64 `json:"industry" koanf:"industry"`
	Culture    float64 `json:"company_culture" koanf:"company_culture"`
	Growth     float64 `json:"career_growth" koanf:"career_growth"`
}

// Slice returns the weights in component order
func (w Weights) Slice() []float64 {
	return []float64{w.Skills, w.Experience, w.Education, w.Location, w.Salary, w.JobType, w.Industry, w.Culture, w.Growth}
}

// ComponentScores holds the nine 0-100 component scores for a candidate/job pair
type ComponentScores struct {
	Skills     float64 `json:"skills_score"`
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
	Location   float64 `json:"location_score"`
	Salary     float64 `json:"salary_score"`
	JobType    float64 `json:"job_type_score"`
	Industry   float64 `json:"industry_score"`
	Culture    float64 `json:"company_culture_score"`
	Growth     float64 `json:"career_growth_score"`
}

// Slice returns the scores in the same order as Weights.Slice
func (c ComponentScores) Slice() []float64 {
	return []float64{c.Skills, c.Experience, c.Education, c.Location, c.Salary, c.JobType, c.Industry, c.Culture, c.Growth}
}

// MatchScore is the stored numeric compatibility between one candidate and one job.
// (UserID, JobID) is unique; recomputation overwrites the row in place.
type MatchScore struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	JobID               uuid.UUID       `json:"job_id"`
	Components          ComponentScores `json:"components"`
	OverallScore        float64         `json:"overall_score"`
	Weights             Weights         `json:"weights"`
	MatchedSkillsCount  int             `json:"matched_skills_count"`
	TotalRequiredSkills int             `json:"total_required_skills"`
	CalculationVersion  string          `json:"calculation_version"`
	CandidateVersion    int64           `json:"candidate_version"`
	JobVersion          int64           `json:"job_version"`
	IsStale             bool            `json:"is_stale"`
	StaleEpoch          int64           `json:"stale_epoch"`
	LastCalculatedAt    time.Time       `json:"last_calculated_at"`
}

// NeedsRecompute reports whether the row must be recalculated before it can be served
// as fresh under the given engine version.
func (m *MatchScore) NeedsRecompute(version string) bool {
	return m.IsStale || m.CalculationVersion != version
}
