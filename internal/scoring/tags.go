package scoring

import (
	"github.com/jonathan/swipe-matcher/internal/parsing"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// JobType scores the candidate's wanted employment types against the job's
func JobType(c *types.CandidateProfile, j *types.JobListing) float64 {
	return jaccard(c.JobTypes, single(j.EmploymentType))
}

// Industry scores the candidate's industries against the job's
func Industry(c *types.CandidateProfile, j *types.JobListing) float64 {
	return jaccard(c.Industries, single(j.Industry))
}

// Culture scores culture tag overlap
func Culture(c *types.CandidateProfile, j *types.JobListing) float64 {
	return jaccard(c.CultureTags, j.CultureTags)
}

// Growth scores career growth tag overlap
func Growth(c *types.CandidateProfile, j *types.JobListing) float64 {
	return jaccard(c.GrowthTags, j.GrowthTags)
}

func single(tag string) []string {
	if tag == "" {
		return nil
	}
	return []string{tag}
}

// jaccard returns |A∩B| / |A∪B| × 100 over normalized tags; two empty sets score 100
func jaccard(a, b []string) float64 {
	setA := parsing.TagSet(a)
	setB := parsing.TagSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 100
	}

	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return 100 * float64(intersection) / float64(union)
}
