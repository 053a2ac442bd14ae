package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/engine"
	"github.com/jonathan/swipe-matcher/internal/observability"
	"github.com/jonathan/swipe-matcher/internal/parsing"
	"github.com/jonathan/swipe-matcher/internal/schemas"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate a ranked recommendation feed",
	Long: `Ranks every active job for one candidate and writes the top-K AIRecommendation list.

With --candidate and --jobs the feed is computed from JSON files in memory.
With --user the candidate, jobs and swipe history are read from PostgreSQL and the
feed is persisted.`,
	RunE: runRecommend,
}

var (
	recommendCandidate   string
	recommendJobs        string
	recommendPreferences string
	recommendUser        string
	recommendTopK        int
	recommendOutput      string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendCandidate, "candidate", "c", "", "Path to input CandidateProfile JSON file")
	recommendCmd.Flags().StringVarP(&recommendJobs, "jobs", "j", "", "Path to input JobListing array JSON file")
	recommendCmd.Flags().StringVarP(&recommendPreferences, "preferences", "p", "", "Path to input UserPreferences JSON file")
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "", "User ID to load from the database")
	recommendCmd.Flags().IntVarP(&recommendTopK, "top-k", "k", 0, "Number of recommendations to return, at most engine.top_k (default engine.top_k)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output recommendations JSON file")

	recommendCmd.MarkFlagsRequiredTogether("candidate", "jobs")
	recommendCmd.MarkFlagsMutuallyExclusive("candidate", "user")
	recommendCmd.MarkFlagsMutuallyExclusive("preferences", "user")
	recommendCmd.MarkFlagsOneRequired("candidate", "user")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var (
		eng    *engine.Engine
		userID uuid.UUID
		err    error
	)

	if recommendUser != "" {
		userID, err = uuid.Parse(recommendUser)
		if err != nil {
			return fmt.Errorf("invalid user ID %q: %w", recommendUser, err)
		}
		database, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		eng, err = newEngine(database, database, true)
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}
	} else {
		dir, id, err := loadDirectory()
		if err != nil {
			return err
		}
		userID = id
		eng, err = newEngine(dir, store.NewMemory(), false)
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}
	}

	recs, err := eng.GetRecommendations(ctx, userID, recommendTopK)
	if err != nil {
		return fmt.Errorf("failed to generate recommendations: %w", err)
	}

	if recommendOutput != "" {
		if err := writeJSON(recommendOutput, recs); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d recommendations for user %s\n", len(recs), userID)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", recommendOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRecommendations(recs)
	if len(recs) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No recommendations for user %s\n", userID)
	}
	return nil
}

// loadDirectory builds an in-memory directory from the file flags
func loadDirectory() (*store.MemoryDirectory, uuid.UUID, error) {
	candidateContent, err := readValidated(recommendCandidate, schemas.CandidateProfile)
	if err != nil {
		return nil, uuid.Nil, err
	}
	candidate, err := parsing.ParseCandidateProfile(candidateContent)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to parse candidate profile: %w", err)
	}

	jobsContent, err := readValidated(recommendJobs, schemas.JobListings)
	if err != nil {
		return nil, uuid.Nil, err
	}
	jobs, err := parsing.ParseJobListings(jobsContent)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to parse job listings: %w", err)
	}

	dir := store.NewMemoryDirectory()
	dir.PutCandidate(candidate)
	for _, job := range jobs {
		dir.PutJob(job)
	}

	if recommendPreferences != "" {
		prefsContent, err := readValidated(recommendPreferences, schemas.UserPreferences)
		if err != nil {
			return nil, uuid.Nil, err
		}
		prefs := types.DefaultPreferences(candidate.UserID)
		if err := json.Unmarshal(prefsContent, prefs); err != nil {
			return nil, uuid.Nil, fmt.Errorf("failed to unmarshal preferences JSON: %w", err)
		}
		prefs.UserID = candidate.UserID
		dir.PutPreferences(prefs)
	}
	return dir, candidate.UserID, nil
}
