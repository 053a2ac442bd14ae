package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonathan/swipe-matcher/internal/engine"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/logging"
	"github.com/jonathan/swipe-matcher/internal/scheduler"
	"github.com/jonathan/swipe-matcher/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the staleness tracker, maintenance jobs and health server",
	Long: `Connects to PostgreSQL and Redis, subscribes to candidate and job change events to
invalidate cached match scores, runs the cron maintenance jobs and serves /health and
/metrics until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.Logger()

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		applied, err := database.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info().Int("applied", applied).Msg("migrations complete")
	}

	checks := map[string]server.Check{"postgres": database.Ping}

	var feed events.ChangeFeed
	if cfg.Redis.URL != "" {
		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		feed = events.NewRedisFeed(rdb, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("no Redis configured, change events from other processes will not be seen")
		feed = events.NewMemoryFeed()
	}

	tracker := engine.NewStalenessTracker(database, log)
	if err := tracker.Start(ctx, feed); err != nil {
		return fmt.Errorf("failed to start staleness tracker: %w", err)
	}
	if err := tracker.RefreshStaleGauge(ctx); err != nil {
		log.Warn().Err(err).Msg("initial stale gauge refresh failed")
	}

	// Redis counters expire on their own; the PostgreSQL ones are pruned daily
	sched := scheduler.New(scheduler.Specs{
		CounterPrune: cfg.Scheduler.CounterPruneSpec,
		StaleGauge:   cfg.Scheduler.StaleGaugeSpec,
	}, database.SwipeCounter(), tracker, log)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	srv := server.New(server.Config{Port: port, RateLimit: cfg.Server.RateLimit}, checks, log)
	return srv.Start(ctx)
}
