package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/applications"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/logging"
	"github.com/jonathan/swipe-matcher/internal/observability"
	"github.com/jonathan/swipe-matcher/internal/swipe"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/spf13/cobra"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Record a swipe on a job",
	Long: `Records a left, right or super swipe for a user against the daily allowance.
Positive swipes by users with auto-apply enabled create and submit an application.`,
	RunE: runSwipe,
}

var (
	swipeUser      string
	swipeJob       string
	swipeDirection string
	swipeSession   string
	swipeDevice    string
	swipeViewed    int
	swipeOutput    string
)

func init() {
	swipeCmd.Flags().StringVarP(&swipeUser, "user", "u", "", "User ID (required)")
	swipeCmd.Flags().StringVarP(&swipeJob, "job", "j", "", "Job ID (required)")
	swipeCmd.Flags().StringVarP(&swipeDirection, "direction", "d", "", "Swipe direction: left, right or super (required)")
	swipeCmd.Flags().StringVar(&swipeSession, "session", "", "Client session ID")
	swipeCmd.Flags().StringVar(&swipeDevice, "device", "", "Device type: mobile, tablet or desktop")
	swipeCmd.Flags().IntVar(&swipeViewed, "viewed", 0, "Seconds spent viewing the job")
	swipeCmd.Flags().StringVarP(&swipeOutput, "out", "o", "", "Path to output SwipeResult JSON file")

	if err := swipeCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	if err := swipeCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := swipeCmd.MarkFlagRequired("direction"); err != nil {
		panic(fmt.Sprintf("failed to mark direction flag as required: %v", err))
	}

	rootCmd.AddCommand(swipeCmd)
}

func runSwipe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Logger()

	userID, err := uuid.Parse(swipeUser)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", swipeUser, err)
	}
	jobID, err := uuid.Parse(swipeJob)
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", swipeJob, err)
	}
	direction, err := types.ParseSwipeDirection(swipeDirection)
	if err != nil {
		return err
	}

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var (
		counter  swipe.Counter
		notifier events.Notifier = events.NopNotifier{}
	)
	if cfg.Redis.URL != "" {
		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		counter = swipe.NewRedisCounter(rdb)
		notifier = events.NewRedisNotifier(rdb, log)
	} else {
		counter = database.SwipeCounter()
	}

	dir := guardDirectory(database)
	eng, err := newEngine(dir, database, false)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	apps := applications.NewService(database, notifier, log).WithDirectory(dir)
	pipeline := swipe.NewPipeline(dir, counter, database, eng, apps,
		swipe.Options{DefaultDailyLimit: cfg.Swipe.DefaultDailyLimit}, log)

	result, err := pipeline.Swipe(ctx, userID, jobID, direction, types.SwipeContext{
		SessionID:        swipeSession,
		DeviceType:       swipeDevice,
		TimeSpentViewing: swipeViewed,
	})
	if err != nil {
		var rle *apperrors.RateLimitError
		if errors.As(err, &rle) {
			return fmt.Errorf("daily swipe limit of %d reached, resets at %s", rle.Limit, rle.ResetAt.Format("2006-01-02 15:04 MST"))
		}
		return fmt.Errorf("failed to record swipe: %w", err)
	}

	if swipeOutput != "" {
		if err := writeJSON(swipeOutput, result); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", swipeOutput)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSwipeResult(result)
	return nil
}
