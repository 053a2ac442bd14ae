// Package types provides type definitions for the structured data shared by the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Proficiency levels a candidate can declare for a skill
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// CandidateProfile is a read-only snapshot of a candidate taken from the profile store.
// Version increases every time the upstream profile changes.
type CandidateProfile struct {
	UserID            uuid.UUID        `json:"user_id" validate:"required"`
	Version           int64            `json:"version"`
	Skills            []CandidateSkill `json:"skills" validate:"dive"`
	ExperienceYears   float64          `json:"experience_years" validate:"gte=0"`
	EducationLevel    string           `json:"education_level,omitempty"`
	Location          Location         `json:"location"`
	SalaryExpectation SalaryRange      `json:"salary_expectation"`
	JobTypes          []string         `json:"job_types,omitempty"`
	Industries        []string         `json:"industries,omitempty"`
	CultureTags       []string         `json:"culture_tags,omitempty"`
	GrowthTags        []string         `json:"growth_tags,omitempty"`
}

// CandidateSkill is one entry of the candidate's skill set
type CandidateSkill struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category,omitempty"`
	Proficiency string   `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Years       *float64 `json:"years,omitempty" validate:"omitempty,gte=0"`
}

// Location describes where a candidate lives or where a job is based.
// Coordinates are optional; city and country are compared case-insensitively.
type Location struct {
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// HasCoordinates reports whether both latitude and longitude are known
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// SalaryRange is a [Min, Max] salary interval. Zero values mean "not specified".
type SalaryRange struct {
	Min float64 `json:"min,omitempty" validate:"gte=0"`
	Max float64 `json:"max,omitempty" validate:"gte=0"`
}

// IsZero reports whether neither bound is specified
func (s SalaryRange) IsZero() bool {
	return s.Min == 0 && s.Max == 0
}

// Validate validates the CandidateProfile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
