package parsing

import (
	"errors"
	"testing"

	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateProfile(t *testing.T) {
	data := []byte(`{
		"user_id": "5f0c6a43-6d0e-4b55-9d55-8f0f2c1c2a11",
		"version": 3,
		"skills": [{"name": "golang", "years": 4}, {"name": "SQL"}],
		"experience_years": 5,
		"education_level": "bachelor"
	}`)

	profile, err := ParseCandidateProfile(data)
	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.Version)
	require.Len(t, profile.Skills, 2)
	assert.Equal(t, "Go", profile.Skills[0].Name)
}

func TestParseCandidateProfile_Errors(t *testing.T) {
	_, err := ParseCandidateProfile([]byte(`{not json`))
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))

	_, err = ParseCandidateProfile([]byte(`{"skills": []}`))
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr), "missing user_id must fail validation")
}

func TestParseJobListings_AppliesDefaults(t *testing.T) {
	data := []byte(`[
		{"job_id": "0b6b8f0e-2a4b-4c3e-9f61-7f1d2d9b3c01", "required_skills": [{"name": "python"}]},
		{"job_id": "0b6b8f0e-2a4b-4c3e-9f61-7f1d2d9b3c02", "status": "closed", "required_skills": []}
	]`)

	jobs, err := ParseJobListings(data)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, types.JobStatusActive, jobs[0].Status)
	assert.Equal(t, types.ImportanceRequired, jobs[0].RequiredSkills[0].Importance)
	assert.Equal(t, 1.0, jobs[0].RequiredSkills[0].Weight)
	assert.Equal(t, "Python", jobs[0].RequiredSkills[0].Name)
	assert.Equal(t, types.JobStatusClosed, jobs[1].Status)
}

func TestParseJobListing_RejectsUnknownWorkMode(t *testing.T) {
	_, err := ParseJobListing([]byte(`{"job_id": "0b6b8f0e-2a4b-4c3e-9f61-7f1d2d9b3c01", "work_mode": "moon"}`))
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights([]byte(`{"skills": 0.5, "experience": 0.5}`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, w.Skills)
	assert.Equal(t, 0.0, w.Growth)
}
