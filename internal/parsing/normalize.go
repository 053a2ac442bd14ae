package parsing

import (
	"sort"
	"strings"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"c sharp":    "C#",
	"csharp":     "C#",
	"py":         "Python",
	"python3":    "Python",
}

// importanceRank orders importance levels from strongest to weakest
var importanceRank = map[string]int{
	types.ImportanceRequired:   0,
	types.ImportancePreferred:  1,
	types.ImportanceNiceToHave: 2,
}

// NormalizeSkillName normalizes a skill name to its canonical display form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms get a leading capital only
	if normalized == strings.ToUpper(normalized) && len(normalized) > 3 && !strings.Contains(lower, " ") {
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}

	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// SkillKey returns the case-folded canonical key used to compare skills.
// "golang", "Go" and "GO" all map to "go".
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// NormalizeTag lowercases and trims a free-form tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.Join(strings.Fields(tag), " "))
}

// TagSet builds a set of normalized tags, dropping empty entries
func TagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if n := NormalizeTag(tag); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// NormalizeSkillRequirements canonicalizes requirement names and merges duplicates.
// A merged requirement keeps the strongest importance, the largest weight and the
// largest years requirement.
func NormalizeSkillRequirements(reqs []types.SkillRequirement) []types.SkillRequirement {
	if len(reqs) == 0 {
		return reqs
	}

	normalized := make([]types.SkillRequirement, 0, len(reqs))
	seen := make(map[string]int)

	for _, req := range reqs {
		name := NormalizeSkillName(req.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)

		if idx, exists := seen[key]; exists {
			existing := &normalized[idx]
			if rankOf(req.Importance) < rankOf(existing.Importance) {
				existing.Importance = req.Importance
			}
			if req.Weight > existing.Weight {
				existing.Weight = req.Weight
			}
			if req.YearsRequired != nil && (existing.YearsRequired == nil || *req.YearsRequired > *existing.YearsRequired) {
				years := *req.YearsRequired
				existing.YearsRequired = &years
			}
			continue
		}

		req.Name = name
		normalized = append(normalized, req)
		seen[key] = len(normalized) - 1
	}

	return normalized
}

// NormalizeCandidateSkills canonicalizes candidate skill names and merges duplicates,
// keeping the largest years value
func NormalizeCandidateSkills(skills []types.CandidateSkill) []types.CandidateSkill {
	if len(skills) == 0 {
		return skills
	}

	normalized := make([]types.CandidateSkill, 0, len(skills))
	seen := make(map[string]int)

	for _, skill := range skills {
		name := NormalizeSkillName(skill.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)

		if idx, exists := seen[key]; exists {
			existing := &normalized[idx]
			if skill.Years != nil && (existing.Years == nil || *skill.Years > *existing.Years) {
				years := *skill.Years
				existing.Years = &years
			}
			continue
		}

		skill.Name = name
		normalized = append(normalized, skill)
		seen[key] = len(normalized) - 1
	}

	return normalized
}

// SortedTags returns the normalized tags in lexical order
func SortedTags(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func rankOf(importance string) int {
	if r, ok := importanceRank[importance]; ok {
		return r
	}
	return len(importanceRank)
}
