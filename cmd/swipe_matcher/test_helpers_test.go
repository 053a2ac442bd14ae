package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const (
	testUserID = "11111111-1111-1111-1111-111111111111"
	jobGoodID  = "22222222-2222-2222-2222-222222222222"
	jobFairID  = "33333333-3333-3333-3333-333333333333"
	jobPoorID  = "44444444-4444-4444-4444-444444444444"
)

const candidateJSON = `{
  "user_id": "` + testUserID + `",
  "version": 1,
  "skills": [
    {"name": "Go", "proficiency": "expert", "years": 5},
    {"name": "PostgreSQL", "proficiency": "advanced", "years": 4},
    {"name": "Kubernetes", "proficiency": "intermediate", "years": 2}
  ],
  "experience_years": 6,
  "education_level": "bachelor",
  "location": {"city": "Austin", "state": "TX", "country": "US", "latitude": 30.27, "longitude": -97.74},
  "salary_expectation": {"min": 140000, "max": 180000},
  "job_types": ["full_time"],
  "industries": ["fintech"],
  "culture_tags": ["remote_first"],
  "growth_tags": ["mentorship"]
}`

const jobGoodJSON = `{
  "job_id": "` + jobGoodID + `",
  "version": 1,
  "title": "Senior Backend Engineer",
  "status": "active",
  "required_skills": [
    {"name": "Go", "importance": "required", "years_required": 3},
    {"name": "PostgreSQL", "importance": "required"},
    {"name": "Kubernetes", "importance": "preferred"}
  ],
  "experience_level": "senior",
  "min_experience_years": 5,
  "education_level": "bachelor",
  "work_mode": "remote",
  "salary": {"min": 150000, "max": 190000},
  "employment_type": "full_time",
  "industry": "fintech",
  "culture_tags": ["remote_first"],
  "growth_tags": ["mentorship"]
}`

const jobsJSON = `[
  ` + jobGoodJSON + `,
  {
    "job_id": "` + jobFairID + `",
    "title": "Platform Engineer",
    "required_skills": [
      {"name": "Go", "importance": "required"},
      {"name": "Terraform", "importance": "required"}
    ],
    "min_experience_years": 3,
    "work_mode": "hybrid",
    "location": {"city": "Austin", "state": "TX", "country": "US", "latitude": 30.27, "longitude": -97.74},
    "employment_type": "full_time",
    "industry": "saas"
  },
  {
    "job_id": "` + jobPoorID + `",
    "title": "iOS Developer",
    "required_skills": [
      {"name": "Swift", "importance": "required"},
      {"name": "Objective-C", "importance": "required"}
    ],
    "min_experience_years": 8,
    "education_level": "master",
    "work_mode": "onsite",
    "location": {"city": "Seattle", "state": "WA", "country": "US", "latitude": 47.61, "longitude": -122.33},
    "employment_type": "contract",
    "industry": "retail"
  }
]`

// writeFixture writes content to name under a temp dir and returns the path
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// resetFlags restores every flag on cmd and its children to its default.
// Package-level commands keep flag state between Execute calls otherwise.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeCommand runs the root command in process with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	// Keep tests independent of a developer's environment
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
