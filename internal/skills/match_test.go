package skills

import (
	"testing"

	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func years(v float64) *float64 { return &v }

func TestMatch_WeightedPartialCoverage(t *testing.T) {
	candidate := []types.CandidateSkill{{Name: "Python"}, {Name: "SQL"}}
	reqs := []types.SkillRequirement{
		{Name: "Python", Importance: types.ImportanceRequired, Weight: 2},
		{Name: "Go", Importance: types.ImportanceRequired, Weight: 1},
	}

	result := Match(candidate, reqs)

	assert.InDelta(t, 66.67, result.Score, 0.005)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "Python", result.Matched[0].Name)
	assert.Equal(t, []string{"Go"}, result.MissingCritical)
	assert.Equal(t, []string{"Go"}, result.Missing)
	assert.Equal(t, 2, result.TotalRequired)
}

func TestMatch_ImportanceMultipliers(t *testing.T) {
	candidate := []types.CandidateSkill{{Name: "Go"}}
	reqs := []types.SkillRequirement{
		{Name: "Go", Importance: types.ImportanceRequired, Weight: 1},
		{Name: "Docker", Importance: types.ImportancePreferred, Weight: 1},
		{Name: "Terraform", Importance: types.ImportanceNiceToHave, Weight: 1},
	}

	result := Match(candidate, reqs)

	// 1.0 / (1.0 + 0.6 + 0.3)
	assert.InDelta(t, 100*1.0/1.9, result.Score, 1e-9)
	assert.Empty(t, result.MissingCritical)
	assert.Equal(t, []string{"Docker", "Terraform"}, result.Missing)
}

func TestMatch_NormalizedNames(t *testing.T) {
	candidate := []types.CandidateSkill{{Name: "golang"}, {Name: "k8s"}}
	reqs := []types.SkillRequirement{
		{Name: "Go", Importance: types.ImportanceRequired, Weight: 1},
		{Name: "Kubernetes", Importance: types.ImportanceRequired, Weight: 1},
	}

	assert.Equal(t, 100.0, Match(candidate, reqs).Score)
}

func TestMatch_YearsShortfall(t *testing.T) {
	tests := []struct {
		name     string
		cand     *float64
		required *float64
		expected float64
	}{
		{"meets requirement", years(5), years(5), 100},
		{"within half", years(3), years(5), 100},
		{"exactly half", years(2.5), years(5), 100},
		{"quarter scales linearly", years(1.25), years(5), 50},
		{"zero years", years(0), years(5), 0},
		{"unknown candidate years", nil, years(5), 100},
		{"no requirement", years(1), nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(
				[]types.CandidateSkill{{Name: "Go", Years: tt.cand}},
				[]types.SkillRequirement{{Name: "Go", Importance: types.ImportanceRequired, Weight: 1, YearsRequired: tt.required}},
			)
			assert.InDelta(t, tt.expected, result.Score, 1e-9)
		})
	}
}

func TestMatch_EdgeCases(t *testing.T) {
	t.Run("no requirements is vacuous", func(t *testing.T) {
		assert.Equal(t, 100.0, Match(nil, nil).Score)
	})

	t.Run("no candidate skills", func(t *testing.T) {
		result := Match(nil, []types.SkillRequirement{{Name: "Go", Importance: types.ImportanceRequired, Weight: 1}})
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, []string{"Go"}, result.MissingCritical)
	})

	t.Run("all weights zero", func(t *testing.T) {
		result := Match(
			[]types.CandidateSkill{{Name: "Rust"}},
			[]types.SkillRequirement{{Name: "Go", Importance: types.ImportanceRequired, Weight: 0}},
		)
		assert.Equal(t, 100.0, result.Score)
	})

	t.Run("duplicate requirements merged", func(t *testing.T) {
		result := Match(
			[]types.CandidateSkill{{Name: "Go"}},
			[]types.SkillRequirement{
				{Name: "go", Importance: types.ImportanceRequired, Weight: 1},
				{Name: "Golang", Importance: types.ImportancePreferred, Weight: 1},
			},
		)
		assert.Equal(t, 1, result.TotalRequired)
		assert.Equal(t, 100.0, result.Score)
	})
}

func TestImportanceMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ImportanceMultiplier(types.ImportanceRequired))
	assert.Equal(t, 0.6, ImportanceMultiplier(types.ImportancePreferred))
	assert.Equal(t, 0.3, ImportanceMultiplier(types.ImportanceNiceToHave))
	assert.Equal(t, 1.0, ImportanceMultiplier("unknown"))
}
