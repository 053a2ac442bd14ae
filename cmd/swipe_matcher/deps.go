package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/swipe-matcher/internal/db"
	"github.com/jonathan/swipe-matcher/internal/engine"
	"github.com/jonathan/swipe-matcher/internal/logging"
	"github.com/jonathan/swipe-matcher/internal/schemas"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/redis/go-redis/v9"
)

// readValidated reads path and checks it against the named embedded schema
func readValidated(path, schemaName string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := schemas.Validate(schemaName, content); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}

// writeJSON writes v as indented JSON, creating the parent directory
func writeJSON(path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// connectDB opens the PostgreSQL pool named by the config
func connectDB(ctx context.Context) (*db.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// connectRedis opens the Redis client named by the config
func connectRedis(ctx context.Context) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("redis URL is required (set REDIS_URL or redis.url)")
	}
	return db.NewRedisClient(ctx, cfg.Redis.URL)
}

// guardDirectory wraps dir in the collaborator timeout and circuit breaker
func guardDirectory(dir store.Directory) store.Directory {
	guard := engine.NewGuard(cfg.Engine.CollaboratorTimeout, engine.BreakerConfig{
		Name:             "directory",
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}, logging.Component("breaker"))
	return engine.NewGuardedDirectory(dir, guard)
}

// newEngine builds an engine over dir and st using the configured weights.
// guarded wraps dir with guardDirectory.
func newEngine(dir store.Directory, st store.Store, guarded bool) (*engine.Engine, error) {
	if guarded {
		dir = guardDirectory(dir)
	}
	return engine.New(dir, st, engine.Options{
		Weights:          cfg.Engine.Weights,
		AlgorithmVersion: cfg.Engine.AlgorithmVersion,
		TopK:             cfg.Engine.TopK,
		SearchRadiusKm:   cfg.Engine.SearchRadiusKm,
	}, logging.Logger())
}
