//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationType buckets an overall score into a display tier
type RecommendationType string

// Recommendation tiers, best first
const (
	RecommendationPerfectMatch   RecommendationType = "perfect_match"
	RecommendationHighMatch      RecommendationType = "high_match"
	RecommendationGoodMatch      RecommendationType = "good_match"
	RecommendationPotentialMatch RecommendationType = "potential_match"
	RecommendationStretchRole    RecommendationType = "stretch_role"
)

// AIRecommendation is one ranked entry of a user's feed. Rows are regenerated as a whole;
// a superseded feed is discarded rather than edited.
type AIRecommendation struct {
	ID                     uuid.UUID          `json:"id"`
	UserID                 uuid.UUID          `json:"user_id"`
	JobID                  uuid.UUID          `json:"job_id"`
	RecommendationType     RecommendationType `json:"recommendation_type"`
	RecommendationScore    float64            `json:"recommendation_score"`
	Rank                   int                `json:"rank"`
	IsShown                bool               `json:"is_shown"`
	ShownAt                *time.Time         `json:"shown_at,omitempty"`
	MatchedSkills          []string           `json:"matching_skills"`
	MissingSkills          []string           `json:"missing_skills"`
	StrengthPoints         []string           `json:"strength_points,omitempty"`
	ImprovementSuggestions []string           `json:"improvement_suggestions,omitempty"`
	Explanation            string             `json:"recommendation_reason"`
	AlgorithmVersion       string             `json:"algorithm_version"`
	PublishedAt            *time.Time         `json:"published_at,omitempty"`
}
