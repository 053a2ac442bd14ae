package main

import (
	"fmt"

	"github.com/jonathan/swipe-matcher/internal/observability"
	"github.com/jonathan/swipe-matcher/internal/parsing"
	"github.com/jonathan/swipe-matcher/internal/schemas"
	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate profile against one job listing",
	Long:  "Computes the nine-component match score for a candidate profile and a job listing read from JSON files, producing a MatchScore JSON.",
	RunE:  runScore,
}

var (
	scoreCandidate string
	scoreJob       string
	scoreWeights   string
	scoreOutput    string
	scoreVerbose   bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreCandidate, "candidate", "c", "", "Path to input CandidateProfile JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to input JobListing JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreWeights, "weights", "w", "", "Path to a Weights JSON file overriding the configured weights")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output MatchScore JSON file (required)")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the component breakdown")

	if err := scoreCmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	// 1. Load inputs
	candidateContent, err := readValidated(scoreCandidate, schemas.CandidateProfile)
	if err != nil {
		return err
	}
	candidate, err := parsing.ParseCandidateProfile(candidateContent)
	if err != nil {
		return fmt.Errorf("failed to parse candidate profile: %w", err)
	}

	jobContent, err := readValidated(scoreJob, schemas.JobListing)
	if err != nil {
		return err
	}
	job, err := parsing.ParseJobListing(jobContent)
	if err != nil {
		return fmt.Errorf("failed to parse job listing: %w", err)
	}

	if scoreWeights != "" {
		weightsContent, err := readValidated(scoreWeights, schemas.Weights)
		if err != nil {
			return err
		}
		weights, err := parsing.ParseWeights(weightsContent)
		if err != nil {
			return fmt.Errorf("failed to parse weights: %w", err)
		}
		cfg.Engine.Weights = *weights
	}

	// 2. Score through the engine against an in-memory directory
	dir := store.NewMemoryDirectory()
	dir.PutCandidate(candidate)
	dir.PutJob(job)

	eng, err := newEngine(dir, store.NewMemory(), false)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	score, err := eng.ComputeOrFetchScore(cmd.Context(), candidate.UserID, job.JobID)
	if err != nil {
		return fmt.Errorf("failed to compute score: %w", err)
	}

	// 3. Write output
	if err := writeJSON(scoreOutput, score); err != nil {
		return err
	}

	if scoreVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintMatchScore(score, skills.Match(candidate.Skills, job.RequiredSkills))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully scored candidate %s against job %s: %.2f\n", candidate.UserID, job.JobID, score.OverallScore)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", scoreOutput)
	return nil
}
