package scoring

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestExperience(t *testing.T) {
	tests := []struct {
		name     string
		cand     float64
		min, max *float64
		level    string
		expected float64
	}{
		{"inside band", 4, f(3), f(6), "", 100},
		{"on lower edge", 3, f(3), f(6), "", 100},
		{"below band decays over twice width", 0, f(3), f(6), "", 50},
		{"above band", 9, f(3), f(6), "", 50},
		{"far below band floors at zero", 0, f(10), f(12), "", 0},
		{"zero width decays over one year", 4.5, f(5), f(5), "", 50},
		{"min only open above", 30, f(5), nil, "", 100},
		{"min only below", 4, f(5), nil, "", 50},
		{"max only", 3, nil, f(2), "", 50},
		{"no bounds", 0, nil, nil, "", 100},
		{"level fallback", 1, nil, nil, "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := tt.level
			if tt.name == "level fallback" {
				level = "entry"
			}
			c := &types.CandidateProfile{ExperienceYears: tt.cand}
			j := &types.JobListing{MinExperienceYears: tt.min, MaxExperienceYears: tt.max, ExperienceLevel: level}
			assert.InDelta(t, tt.expected, Experience(c, j), 1e-9)
		})
	}
}

func TestExperience_LevelBandBelow(t *testing.T) {
	c := &types.CandidateProfile{ExperienceYears: 2}
	j := &types.JobListing{ExperienceLevel: "senior"} // 5-10, span 10
	assert.InDelta(t, 70, Experience(c, j), 1e-9)
}

func TestEducation(t *testing.T) {
	tests := []struct {
		name     string
		cand     string
		job      string
		expected float64
	}{
		{"meets", types.EducationBachelor, types.EducationBachelor, 100},
		{"exceeds", types.EducationDoctorate, types.EducationBachelor, 100},
		{"one short", types.EducationAssociate, types.EducationBachelor, 75},
		{"three short", types.EducationHighSchool, types.EducationMaster, 25},
		{"missing candidate level", "", types.EducationHighSchool, 75},
		{"floor at zero", "", types.EducationDoctorate, 0},
		{"any", "", types.EducationAny, 100},
		{"no requirement", "", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &types.CandidateProfile{EducationLevel: tt.cand}
			j := &types.JobListing{EducationLevel: tt.job}
			assert.Equal(t, tt.expected, Education(c, j))
		})
	}
}

func TestLocation(t *testing.T) {
	sf := types.Location{City: "San Francisco", Country: "US", Latitude: f(37.7749), Longitude: f(-122.4194)}
	oakland := types.Location{City: "Oakland", Country: "US", Latitude: f(37.8044), Longitude: f(-122.2712)}
	nyc := types.Location{City: "New York", Country: "US", Latitude: f(40.7128), Longitude: f(-74.0060)}

	score := Location(50)

	t.Run("remote", func(t *testing.T) {
		c := &types.CandidateProfile{}
		j := &types.JobListing{WorkMode: types.WorkModeRemote}
		assert.Equal(t, 100.0, score(c, j))
	})

	t.Run("same city case-insensitive", func(t *testing.T) {
		c := &types.CandidateProfile{Location: types.Location{City: "san francisco", Country: "us"}}
		j := &types.JobListing{WorkMode: types.WorkModeOnsite, Location: sf}
		assert.Equal(t, 100.0, score(c, j))
	})

	t.Run("nearby decays linearly", func(t *testing.T) {
		c := &types.CandidateProfile{Location: oakland}
		j := &types.JobListing{WorkMode: types.WorkModeHybrid, Location: sf}
		got := score(c, j)
		d := haversineDistance(*oakland.Latitude, *oakland.Longitude, *sf.Latitude, *sf.Longitude)
		assert.InDelta(t, 100*(1-d/50), got, 1e-9)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 100.0)
	})

	t.Run("outside radius", func(t *testing.T) {
		c := &types.CandidateProfile{Location: nyc}
		j := &types.JobListing{WorkMode: types.WorkModeOnsite, Location: sf}
		assert.Equal(t, 0.0, score(c, j))
	})

	t.Run("missing coordinates", func(t *testing.T) {
		c := &types.CandidateProfile{Location: types.Location{City: "Oakland", Country: "US"}}
		j := &types.JobListing{WorkMode: types.WorkModeOnsite, Location: sf}
		assert.Equal(t, 0.0, score(c, j))
	})

	t.Run("larger radius scores higher", func(t *testing.T) {
		c := &types.CandidateProfile{Location: oakland}
		j := &types.JobListing{Location: sf}
		assert.Greater(t, Location(200)(c, j), Location(50)(c, j))
	})
}

func TestHaversineDistance(t *testing.T) {
	// London to Paris is roughly 344 km
	d := haversineDistance(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 5)
	assert.Equal(t, 0.0, haversineDistance(10, 10, 10, 10))
}

func TestSalary(t *testing.T) {
	tests := []struct {
		name     string
		cand     types.SalaryRange
		job      types.SalaryRange
		expected float64
	}{
		{"candidate inside job", types.SalaryRange{Min: 100, Max: 120}, types.SalaryRange{Min: 90, Max: 150}, 100},
		{"half overlap", types.SalaryRange{Min: 100, Max: 200}, types.SalaryRange{Min: 150, Max: 300}, 50},
		{"no overlap", types.SalaryRange{Min: 200, Max: 250}, types.SalaryRange{Min: 100, Max: 150}, 0},
		{"open-ended job max", types.SalaryRange{Min: 100, Max: 200}, types.SalaryRange{Min: 150}, 50},
		{"candidate point inside", types.SalaryRange{Min: 120}, types.SalaryRange{Min: 100, Max: 150}, 100},
		{"candidate point outside", types.SalaryRange{Min: 200}, types.SalaryRange{Min: 100, Max: 150}, 0},
		{"missing candidate", types.SalaryRange{}, types.SalaryRange{Min: 100, Max: 150}, 50},
		{"missing job", types.SalaryRange{Min: 100, Max: 150}, types.SalaryRange{}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &types.CandidateProfile{SalaryExpectation: tt.cand}
			j := &types.JobListing{Salary: tt.job}
			assert.InDelta(t, tt.expected, Salary(c, j), 1e-9)
		})
	}
}

func TestTagScorers(t *testing.T) {
	c := &types.CandidateProfile{
		JobTypes:    []string{"Full-Time"},
		Industries:  []string{"fintech", "health"},
		CultureTags: []string{"Remote-First", "async"},
	}
	j := &types.JobListing{
		EmploymentType: "full-time",
		Industry:       "Fintech",
		CultureTags:    []string{"remote-first", "pairing"},
	}

	assert.Equal(t, 100.0, JobType(c, j))
	assert.Equal(t, 50.0, Industry(c, j))
	assert.InDelta(t, 100.0/3, Culture(c, j), 1e-9)
	assert.Equal(t, 100.0, Growth(c, j), "both empty")
	assert.Equal(t, 0.0, Growth(&types.CandidateProfile{GrowthTags: []string{"mentorship"}}, j))
}

func TestValidateWeights(t *testing.T) {
	require.NoError(t, ValidateWeights(DefaultWeights()))

	bad := DefaultWeights()
	bad.Skills = 0.5
	err := ValidateWeights(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWeights))

	negative := DefaultWeights()
	negative.Skills = 0.4
	negative.Growth = -0.08
	err = ValidateWeights(negative)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWeights))

	within := DefaultWeights()
	within.Skills += 5e-7
	assert.NoError(t, ValidateWeights(within))
}

func TestAggregate(t *testing.T) {
	all := func(v float64) types.ComponentScores {
		return types.ComponentScores{Skills: v, Experience: v, Education: v, Location: v, Salary: v, JobType: v, Industry: v, Culture: v, Growth: v}
	}

	overall, err := Aggregate(all(100), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100.0, overall)

	overall, err = Aggregate(all(0), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 0.0, overall)

	overall, err = Aggregate(all(250), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100.0, overall, "components are clamped")

	w := types.Weights{Skills: 1}
	overall, err = Aggregate(types.ComponentScores{Skills: 66.666666}, w)
	require.NoError(t, err)
	assert.Equal(t, 66.67, overall)

	_, err = Aggregate(all(50), types.Weights{Skills: 0.9})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWeights))
}

func TestScore_DeterministicAndBounded(t *testing.T) {
	c := &types.CandidateProfile{
		UserID:          uuid.New(),
		Skills:          []types.CandidateSkill{{Name: "Python"}, {Name: "SQL"}},
		ExperienceYears: 4,
		EducationLevel:  types.EducationBachelor,
		Location:        types.Location{City: "Austin", Country: "US"},
		JobTypes:        []string{"full_time"},
	}
	j := &types.JobListing{
		JobID:  uuid.New(),
		Status: types.JobStatusActive,
		RequiredSkills: []types.SkillRequirement{
			{Name: "Python", Importance: types.ImportanceRequired, Weight: 2},
			{Name: "Go", Importance: types.ImportanceRequired, Weight: 1},
		},
		MinExperienceYears: f(3),
		MaxExperienceYears: f(6),
		EducationLevel:     types.EducationBachelor,
		WorkMode:           types.WorkModeOnsite,
		Location:           types.Location{City: "Austin", Country: "US"},
		EmploymentType:     "full_time",
	}

	b1, o1, err := Score(c, j, DefaultWeights(), Options{})
	require.NoError(t, err)
	b2, o2, err := Score(c, j, DefaultWeights(), Options{})
	require.NoError(t, err)

	assert.Equal(t, o1, o2)
	assert.Equal(t, b1.Components, b2.Components)
	assert.Equal(t, 66.67, b1.Components.Skills)
	assert.GreaterOrEqual(t, o1, 0.0)
	assert.LessOrEqual(t, o1, 100.0)

	_, _, err = Score(c, j, types.Weights{Skills: 2}, Options{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWeights))
}
