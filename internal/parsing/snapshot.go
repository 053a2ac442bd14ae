package parsing

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// ParseCandidateProfile decodes a candidate snapshot, validates it and normalizes skill names
func ParseCandidateProfile(data []byte) (*types.CandidateProfile, error) {
	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, &ParseError{Message: "failed to decode candidate profile", Cause: err}
	}
	if err := profile.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error(), Field: "candidate", Cause: err}
	}
	profile.Skills = NormalizeCandidateSkills(profile.Skills)
	return &profile, nil
}

// ParseJobListing decodes a single job snapshot
func ParseJobListing(data []byte) (*types.JobListing, error) {
	var job types.JobListing
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, &ParseError{Message: "failed to decode job listing", Cause: err}
	}
	if err := finishJob(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ParseJobListings decodes a JSON array of job snapshots
func ParseJobListings(data []byte) ([]*types.JobListing, error) {
	var jobs []*types.JobListing
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, &ParseError{Message: "failed to decode job listings", Cause: err}
	}
	for i, job := range jobs {
		if job == nil {
			return nil, &ValidationError{Message: "null entry", Field: fmt.Sprintf("jobs[%d]", i)}
		}
		if err := finishJob(job); err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
	}
	return jobs, nil
}

// ParseWeights decodes a weight override document. Validation of the sum is left to the aggregator.
func ParseWeights(data []byte) (*types.Weights, error) {
	var w types.Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &ParseError{Message: "failed to decode weights", Cause: err}
	}
	return &w, nil
}

func finishJob(job *types.JobListing) error {
	if err := job.Validate(); err != nil {
		return &ValidationError{Message: err.Error(), Field: "job", Cause: err}
	}
	if job.Status == "" {
		job.Status = types.JobStatusActive
	}
	for i := range job.RequiredSkills {
		if job.RequiredSkills[i].Importance == "" {
			job.RequiredSkills[i].Importance = types.ImportanceRequired
		}
		if job.RequiredSkills[i].Weight == 0 {
			job.RequiredSkills[i].Weight = 1
		}
	}
	job.RequiredSkills = NormalizeSkillRequirements(job.RequiredSkills)
	return nil
}
