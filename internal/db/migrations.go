package db

import (
	"context"
	"fmt"
	"time"
)

// Migration is one versioned schema change
type Migration struct {
	Version   int
	Name      string
	SQL       string
	AppliedAt time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// migrations are append-only. Never edit a released entry.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "snapshots",
		SQL: `
CREATE TABLE IF NOT EXISTS candidate_snapshots (
	user_id    UUID PRIMARY KEY,
	version    BIGINT NOT NULL DEFAULT 1,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS job_snapshots (
	job_id       UUID PRIMARY KEY,
	version      BIGINT NOT NULL DEFAULT 1,
	job_status   TEXT NOT NULL DEFAULT 'active',
	published_at TIMESTAMPTZ,
	listing      JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_job_snapshots_status ON job_snapshots (job_status);
CREATE TABLE IF NOT EXISTS user_preferences (
	user_id           UUID PRIMARY KEY,
	auto_apply        BOOLEAN NOT NULL DEFAULT FALSE,
	daily_swipe_limit INTEGER NOT NULL DEFAULT 50 CHECK (daily_swipe_limit >= 0),
	search_radius     DOUBLE PRECISION NOT NULL DEFAULT 50 CHECK (search_radius >= 0),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: 2,
		Name:    "match_scores",
		SQL: `
CREATE TABLE IF NOT EXISTS match_scores (
	id                    UUID PRIMARY KEY,
	user_id               UUID NOT NULL,
	job_id                UUID NOT NULL,
	skills_score          DOUBLE PRECISION NOT NULL,
	experience_score      DOUBLE PRECISION NOT NULL,
	education_score       DOUBLE PRECISION NOT NULL,
	location_score        DOUBLE PRECISION NOT NULL,
	salary_score          DOUBLE PRECISION NOT NULL,
	job_type_score        DOUBLE PRECISION NOT NULL,
	industry_score        DOUBLE PRECISION NOT NULL,
	company_culture_score DOUBLE PRECISION NOT NULL,
	career_growth_score   DOUBLE PRECISION NOT NULL,
	overall_score         DOUBLE PRECISION NOT NULL CHECK (overall_score BETWEEN 0 AND 100),
	weights               JSONB NOT NULL,
	matched_skills_count  INTEGER NOT NULL DEFAULT 0,
	total_required_skills INTEGER NOT NULL DEFAULT 0,
	calculation_version   TEXT NOT NULL,
	candidate_version     BIGINT NOT NULL DEFAULT 0,
	job_version           BIGINT NOT NULL DEFAULT 0,
	is_stale              BOOLEAN NOT NULL DEFAULT FALSE,
	stale_epoch           BIGINT NOT NULL DEFAULT 0,
	last_calculated_at    TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_match_scores_job ON match_scores (job_id);
CREATE INDEX IF NOT EXISTS idx_match_scores_stale ON match_scores (is_stale) WHERE is_stale;`,
	},
	{
		Version: 3,
		Name:    "ai_recommendations",
		SQL: `
CREATE TABLE IF NOT EXISTS ai_recommendations (
	id                      UUID PRIMARY KEY,
	user_id                 UUID NOT NULL,
	job_id                  UUID NOT NULL,
	recommendation_type     TEXT NOT NULL,
	recommendation_score    DOUBLE PRECISION NOT NULL,
	rank                    INTEGER NOT NULL,
	is_shown                BOOLEAN NOT NULL DEFAULT FALSE,
	shown_at                TIMESTAMPTZ,
	matching_skills         JSONB NOT NULL DEFAULT '[]',
	missing_skills          JSONB NOT NULL DEFAULT '[]',
	strength_points         JSONB NOT NULL DEFAULT '[]',
	improvement_suggestions JSONB NOT NULL DEFAULT '[]',
	recommendation_reason   TEXT NOT NULL DEFAULT '',
	algorithm_version       TEXT NOT NULL,
	published_at            TIMESTAMPTZ,
	UNIQUE (user_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_ai_recommendations_job ON ai_recommendations (job_id);`,
	},
	{
		Version: 4,
		Name:    "swipes",
		SQL: `
CREATE TABLE IF NOT EXISTS swipes (
	id                 UUID PRIMARY KEY,
	user_id            UUID NOT NULL,
	job_id             UUID NOT NULL,
	swipe_direction    TEXT NOT NULL CHECK (swipe_direction IN ('left', 'right', 'super')),
	swipe_timestamp    TIMESTAMPTZ NOT NULL,
	session_id         TEXT,
	device_type        TEXT,
	time_spent_viewing INTEGER NOT NULL DEFAULT 0,
	auto_applied       BOOLEAN NOT NULL DEFAULT FALSE,
	match_score        DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_swipes_user ON swipes (user_id, swipe_timestamp);`,
	},
	{
		Version: 5,
		Name:    "applications",
		SQL: `
CREATE TABLE IF NOT EXISTS applications (
	id                    UUID PRIMARY KEY,
	user_id               UUID NOT NULL,
	job_id                UUID NOT NULL,
	swipe_id              UUID,
	application_status    TEXT NOT NULL,
	application_method    TEXT NOT NULL,
	is_auto_applied       BOOLEAN NOT NULL DEFAULT FALSE,
	match_score           DOUBLE PRECISION,
	submitted_at          TIMESTAMPTZ,
	last_status_update_at TIMESTAMPTZ NOT NULL,
	rejection_reason      TEXT,
	history               JSONB NOT NULL DEFAULT '[]',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_live
	ON applications (user_id, job_id)
	WHERE application_status NOT IN ('rejected', 'withdrawn');
CREATE INDEX IF NOT EXISTS idx_applications_user ON applications (user_id, created_at DESC);`,
	},
	{
		Version: 6,
		Name:    "swipe_counters",
		SQL: `
CREATE TABLE IF NOT EXISTS swipe_counters (
	user_id UUID NOT NULL,
	day     DATE NOT NULL,
	count   INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
	PRIMARY KEY (user_id, day)
);`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations
func (db *DB) Migrate(ctx context.Context) (int, error) {
	if _, err := db.pool.Exec(ctx, schemaMigrationsTable); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return 0, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	return tx.Commit(ctx)
}
