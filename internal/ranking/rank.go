package ranking

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// DefaultTopK is the number of recommendations kept per user when unset
const DefaultTopK = 50

// recommendationNamespace seeds the deterministic recommendation ids
var recommendationNamespace = uuid.MustParse("8c3b2f3e-62a4-4d59-9a51-2f4c1f0b7d10")

// Candidate is one scored job offered to the ranker
type Candidate struct {
	Job    *types.JobListing
	Score  *types.MatchScore
	Skills skills.MatchResult
}

// Options controls a ranking pass
type Options struct {
	TopK             int
	AlgorithmVersion string
	// Swiped holds job ids the user has already swiped on; they are filtered out
	Swiped map[uuid.UUID]bool
}

// Rank filters, orders and labels candidates for one user.
// Order is overall score desc, then published date desc (unset dates last), then job id asc,
// which is total, so identical inputs always produce identical output.
func Rank(userID uuid.UUID, candidates []Candidate, opts Options) []types.AIRecommendation {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Job == nil || c.Score == nil || !c.Job.IsActive() {
			continue
		}
		if opts.Swiped[c.Job.JobID] {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return less(eligible[i], eligible[j])
	})

	if len(eligible) > topK {
		eligible = eligible[:topK]
	}

	recs := make([]types.AIRecommendation, 0, len(eligible))
	for i, c := range eligible {
		recType := Classify(c.Score.OverallScore)
		recs = append(recs, types.AIRecommendation{
			ID:                     RecommendationID(userID, c.Job.JobID),
			UserID:                 userID,
			JobID:                  c.Job.JobID,
			RecommendationType:     recType,
			RecommendationScore:    c.Score.OverallScore,
			Rank:                   i + 1,
			MatchedSkills:          matchedNames(c.Skills),
			MissingSkills:          append([]string{}, c.Skills.Missing...),
			StrengthPoints:         strengthPoints(c.Score.Components, c.Skills),
			ImprovementSuggestions: improvementSuggestions(c.Score.Components, c.Skills),
			Explanation:            generateExplanation(recType, c.Score, c.Skills),
			AlgorithmVersion:       opts.AlgorithmVersion,
			PublishedAt:            c.Job.PublishedAt,
		})
	}
	return recs
}

// RecommendationID derives a stable id for the (user, job) recommendation row
func RecommendationID(userID, jobID uuid.UUID) uuid.UUID {
	name := make([]byte, 0, 32)
	name = append(name, userID[:]...)
	name = append(name, jobID[:]...)
	return uuid.NewSHA1(recommendationNamespace, name)
}

func less(a, b Candidate) bool {
	if a.Score.OverallScore != b.Score.OverallScore {
		return a.Score.OverallScore > b.Score.OverallScore
	}
	pa, pb := a.Job.PublishedAt, b.Job.PublishedAt
	switch {
	case pa != nil && pb == nil:
		return true
	case pa == nil && pb != nil:
		return false
	case pa != nil && pb != nil && !pa.Equal(*pb):
		return pa.After(*pb)
	}
	return bytes.Compare(a.Job.JobID[:], b.Job.JobID[:]) < 0
}

func matchedNames(result skills.MatchResult) []string {
	names := make([]string, 0, len(result.Matched))
	for _, m := range result.Matched {
		names = append(names, m.Name)
	}
	return names
}
