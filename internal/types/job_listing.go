//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobStatus values mirror the job_status column of the listing store
const (
	JobStatusDraft   = "draft"
	JobStatusActive  = "active"
	JobStatusPaused  = "paused"
	JobStatusFilled  = "filled"
	JobStatusClosed  = "closed"
	JobStatusExpired = "expired"
)

// Skill importance levels
const (
	ImportanceRequired   = "required"
	ImportancePreferred  = "preferred"
	ImportanceNiceToHave = "nice_to_have"
)

// Work modes
const (
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
	WorkModeOnsite = "onsite"
)

// Education levels, lowest first. EducationAny is only meaningful on a job.
const (
	EducationHighSchool = "high_school"
	EducationAssociate  = "associate"
	EducationBachelor   = "bachelor"
	EducationMaster     = "master"
	EducationDoctorate  = "doctorate"
	EducationAny        = "any"
)

// JobListing is a read-only snapshot of a job posting taken from the listing store.
type JobListing struct {
	JobID              uuid.UUID          `json:"job_id" validate:"required"`
	Version            int64              `json:"version"`
	Title              string             `json:"title,omitempty"`
	Status             string             `json:"status" validate:"omitempty,oneof=draft active paused filled closed expired"`
	PublishedAt        *time.Time         `json:"published_at,omitempty"`
	RequiredSkills     []SkillRequirement `json:"required_skills" validate:"dive"`
	ExperienceLevel    string             `json:"experience_level,omitempty"`
	MinExperienceYears *float64           `json:"min_experience_years,omitempty" validate:"omitempty,gte=0"`
	MaxExperienceYears *float64           `json:"max_experience_years,omitempty" validate:"omitempty,gte=0"`
	EducationLevel     string             `json:"education_level,omitempty"`
	WorkMode           string             `json:"work_mode,omitempty" validate:"omitempty,oneof=remote hybrid onsite"`
	Location           Location           `json:"location"`
	Salary             SalaryRange        `json:"salary"`
	EmploymentType     string             `json:"employment_type,omitempty"`
	Industry           string             `json:"industry,omitempty"`
	CultureTags        []string           `json:"culture_tags,omitempty"`
	GrowthTags         []string           `json:"growth_tags,omitempty"`
}

// SkillRequirement is one weighted skill a job asks for
type SkillRequirement struct {
	Name          string   `json:"name" validate:"required"`
	Importance    string   `json:"importance" validate:"omitempty,oneof=required preferred nice_to_have"`
	Weight        float64  `json:"weight" validate:"gte=0"`
	YearsRequired *float64 `json:"years_required,omitempty" validate:"omitempty,gte=0"`
}

// IsActive reports whether the job can be shown in a recommendation feed
func (j *JobListing) IsActive() bool {
	return j.Status == JobStatusActive
}

// Validate validates the JobListing using the validator.
func (j *JobListing) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}
