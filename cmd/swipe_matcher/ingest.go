package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/db"
	"github.com/jonathan/swipe-matcher/internal/engine"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/logging"
	"github.com/jonathan/swipe-matcher/internal/parsing"
	"github.com/jonathan/swipe-matcher/internal/schemas"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Store candidate, job and preference snapshots",
	Long: `Upserts snapshots into PostgreSQL and publishes a change event for each one so
cached match scores are invalidated. Without Redis the invalidation is applied inline.`,
	RunE: runIngest,
}

var (
	ingestCandidate       string
	ingestJob             string
	ingestJobs            string
	ingestPreferences     string
	ingestDeleteCandidate string
	ingestDeleteJob       string
)

func init() {
	ingestCmd.Flags().StringVar(&ingestCandidate, "candidate", "", "Path to a CandidateProfile JSON file")
	ingestCmd.Flags().StringVar(&ingestJob, "job", "", "Path to a JobListing JSON file")
	ingestCmd.Flags().StringVar(&ingestJobs, "jobs", "", "Path to a JobListing array JSON file")
	ingestCmd.Flags().StringVar(&ingestPreferences, "preferences", "", "Path to a UserPreferences JSON file")
	ingestCmd.Flags().StringVar(&ingestDeleteCandidate, "delete-candidate", "", "User ID whose profile is deleted")
	ingestCmd.Flags().StringVar(&ingestDeleteJob, "delete-job", "", "Job ID to delete")

	ingestCmd.MarkFlagsOneRequired("candidate", "job", "jobs", "preferences", "delete-candidate", "delete-job")

	rootCmd.AddCommand(ingestCmd)
}

// changeSink receives change events after a write
type changeSink func(ctx context.Context, ev events.ChangeEvent) error

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Component("ingest")

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var publish changeSink
	if cfg.Redis.URL != "" {
		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		publish = events.NewRedisFeed(rdb, log).Publish
	} else {
		log.Warn().Msg("no Redis configured, applying score invalidation inline")
		publish = engine.NewStalenessTracker(database, log).Handle
	}

	out := cmd.OutOrStdout()

	if ingestCandidate != "" {
		content, err := readValidated(ingestCandidate, schemas.CandidateProfile)
		if err != nil {
			return err
		}
		profile, err := parsing.ParseCandidateProfile(content)
		if err != nil {
			return fmt.Errorf("failed to parse candidate profile: %w", err)
		}
		version, err := database.UpsertCandidate(ctx, profile)
		if err != nil {
			return fmt.Errorf("failed to store candidate profile: %w", err)
		}
		if err := publish(ctx, events.ChangeEvent{Kind: events.KindCandidate, ID: profile.UserID, Op: events.OpUpdated, Version: version}); err != nil {
			return fmt.Errorf("failed to publish candidate change: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Stored candidate %s (version %d)\n", profile.UserID, version)
	}

	var jobs []*types.JobListing
	if ingestJob != "" {
		content, err := readValidated(ingestJob, schemas.JobListing)
		if err != nil {
			return err
		}
		job, err := parsing.ParseJobListing(content)
		if err != nil {
			return fmt.Errorf("failed to parse job listing: %w", err)
		}
		jobs = append(jobs, job)
	}
	if ingestJobs != "" {
		content, err := readValidated(ingestJobs, schemas.JobListings)
		if err != nil {
			return err
		}
		parsed, err := parsing.ParseJobListings(content)
		if err != nil {
			return fmt.Errorf("failed to parse job listings: %w", err)
		}
		jobs = append(jobs, parsed...)
	}
	if err := ingestJobListings(ctx, database, publish, jobs); err != nil {
		return err
	}
	if len(jobs) > 0 {
		_, _ = fmt.Fprintf(out, "Stored %d job listing(s)\n", len(jobs))
	}

	if ingestPreferences != "" {
		content, err := readValidated(ingestPreferences, schemas.UserPreferences)
		if err != nil {
			return err
		}
		prefs := types.DefaultPreferences(uuid.Nil)
		if err := json.Unmarshal(content, prefs); err != nil {
			return fmt.Errorf("failed to unmarshal preferences JSON: %w", err)
		}
		if err := database.UpsertPreferences(ctx, prefs); err != nil {
			return fmt.Errorf("failed to store preferences: %w", err)
		}
		// Search radius feeds the location component
		if err := publish(ctx, events.ChangeEvent{Kind: events.KindCandidate, ID: prefs.UserID, Op: events.OpUpdated}); err != nil {
			return fmt.Errorf("failed to publish preference change: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Stored preferences for %s\n", prefs.UserID)
	}

	if ingestDeleteCandidate != "" {
		id, err := uuid.Parse(ingestDeleteCandidate)
		if err != nil {
			return fmt.Errorf("invalid user ID %q: %w", ingestDeleteCandidate, err)
		}
		if _, err := database.DeleteCandidate(ctx, id); err != nil {
			return fmt.Errorf("failed to delete candidate: %w", err)
		}
		if err := publish(ctx, events.ChangeEvent{Kind: events.KindCandidate, ID: id, Op: events.OpDeleted}); err != nil {
			return fmt.Errorf("failed to publish candidate delete: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted candidate %s\n", id)
	}

	if ingestDeleteJob != "" {
		id, err := uuid.Parse(ingestDeleteJob)
		if err != nil {
			return fmt.Errorf("invalid job ID %q: %w", ingestDeleteJob, err)
		}
		if _, err := database.DeleteJob(ctx, id); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		if err := publish(ctx, events.ChangeEvent{Kind: events.KindJob, ID: id, Op: events.OpDeleted}); err != nil {
			return fmt.Errorf("failed to publish job delete: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted job %s\n", id)
	}

	return nil
}

func ingestJobListings(ctx context.Context, database *db.DB, publish changeSink, jobs []*types.JobListing) error {
	for _, job := range jobs {
		version, err := database.UpsertJob(ctx, job)
		if err != nil {
			return fmt.Errorf("failed to store job %s: %w", job.JobID, err)
		}
		if err := publish(ctx, events.ChangeEvent{Kind: events.KindJob, ID: job.JobID, Op: events.OpUpdated, Version: version}); err != nil {
			return fmt.Errorf("failed to publish job change: %w", err)
		}
	}
	return nil
}
