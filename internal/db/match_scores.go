package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
)

const matchScoreColumns = `id, user_id, job_id, skills_score, experience_score, education_score,
	location_score, salary_score, job_type_score, industry_score, company_culture_score,
	career_growth_score, overall_score, weights, matched_skills_count, total_required_skills,
	calculation_version, candidate_version, job_version, is_stale, stale_epoch, last_calculated_at`

func scanMatchScore(row pgx.Row) (*types.MatchScore, error) {
	var s types.MatchScore
	var weights []byte
	c := &s.Components
	err := row.Scan(&s.ID, &s.UserID, &s.JobID, &c.Skills, &c.Experience, &c.Education,
		&c.Location, &c.Salary, &c.JobType, &c.Industry, &c.Culture,
		&c.Growth, &s.OverallScore, &weights, &s.MatchedSkillsCount, &s.TotalRequiredSkills,
		&s.CalculationVersion, &s.CandidateVersion, &s.JobVersion, &s.IsStale, &s.StaleEpoch, &s.LastCalculatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weights, &s.Weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &s, nil
}

// GetMatchScore returns the stored score for the pair
func (db *DB) GetMatchScore(ctx context.Context, userID, jobID uuid.UUID) (*types.MatchScore, error) {
	s, err := scanMatchScore(db.pool.QueryRow(ctx,
		`SELECT `+matchScoreColumns+` FROM match_scores WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, &apperrors.NotFoundError{Entity: "match score", ID: userID.String() + "/" + jobID.String()}
		}
		return nil, fmt.Errorf("failed to get match score: %w", err)
	}
	return s, nil
}

// ListMatchScoresByUser returns every score for the user
func (db *DB) ListMatchScoresByUser(ctx context.Context, userID uuid.UUID) ([]*types.MatchScore, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+matchScoreColumns+` FROM match_scores WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match scores: %w", err)
	}
	defer rows.Close()

	var out []*types.MatchScore
	for rows.Next() {
		s, err := scanMatchScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match score: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveMatchScore upserts the score if the stored stale epoch still equals expectedEpoch.
// A missing row counts as epoch 0.
func (db *DB) SaveMatchScore(ctx context.Context, score *types.MatchScore, expectedEpoch int64) (bool, error) {
	weights, err := json.Marshal(score.Weights)
	if err != nil {
		return false, fmt.Errorf("failed to marshal weights: %w", err)
	}
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	c := score.Components
	args := []any{
		score.ID, score.UserID, score.JobID, c.Skills, c.Experience, c.Education,
		c.Location, c.Salary, c.JobType, c.Industry, c.Culture, c.Growth,
		score.OverallScore, weights, score.MatchedSkillsCount, score.TotalRequiredSkills,
		score.CalculationVersion, score.CandidateVersion, score.JobVersion, score.LastCalculatedAt,
		expectedEpoch,
	}

	const set = `skills_score = $4, experience_score = $5, education_score = $6,
		location_score = $7, salary_score = $8, job_type_score = $9, industry_score = $10,
		company_culture_score = $11, career_growth_score = $12, overall_score = $13, weights = $14,
		matched_skills_count = $15, total_required_skills = $16, calculation_version = $17,
		candidate_version = $18, job_version = $19, last_calculated_at = $20, is_stale = FALSE`

	var row pgx.Row
	if expectedEpoch == 0 {
		row = db.pool.QueryRow(ctx,
			`INSERT INTO match_scores (id, user_id, job_id, skills_score, experience_score, education_score,
			     location_score, salary_score, job_type_score, industry_score, company_culture_score,
			     career_growth_score, overall_score, weights, matched_skills_count, total_required_skills,
			     calculation_version, candidate_version, job_version, last_calculated_at, is_stale, stale_epoch)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, FALSE, $21)
			 ON CONFLICT (user_id, job_id) DO UPDATE SET `+set+`
			 WHERE match_scores.stale_epoch = $21
			 RETURNING id, stale_epoch`,
			args...,
		)
	} else {
		// the row already exists so its id is kept; $1 only pins the parameter type
		row = db.pool.QueryRow(ctx,
			`UPDATE match_scores SET `+set+`
			 WHERE user_id = $2 AND job_id = $3 AND stale_epoch = $21 AND $1::uuid IS NOT NULL
			 RETURNING id, stale_epoch`,
			args...,
		)
	}

	var id uuid.UUID
	var epoch int64
	if err := row.Scan(&id, &epoch); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save match score: %w", err)
	}
	score.ID = id
	score.StaleEpoch = epoch
	score.IsStale = false
	return true, nil
}

// MarkStaleByUser flags every score of the user stale and bumps its epoch
func (db *DB) MarkStaleByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return db.execCount(ctx, "mark stale by user",
		`UPDATE match_scores SET is_stale = TRUE, stale_epoch = stale_epoch + 1 WHERE user_id = $1`, userID)
}

// MarkStaleByJob flags every score of the job stale and bumps its epoch
func (db *DB) MarkStaleByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	return db.execCount(ctx, "mark stale by job",
		`UPDATE match_scores SET is_stale = TRUE, stale_epoch = stale_epoch + 1 WHERE job_id = $1`, jobID)
}

// DeleteMatchScoresByUser removes every score of the user
func (db *DB) DeleteMatchScoresByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete match scores by user", `DELETE FROM match_scores WHERE user_id = $1`, userID)
}

// DeleteMatchScoresByJob removes every score of the job
func (db *DB) DeleteMatchScoresByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete match scores by job", `DELETE FROM match_scores WHERE job_id = $1`, jobID)
}

// CountStaleMatchScores counts rows awaiting recomputation
func (db *DB) CountStaleMatchScores(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM match_scores WHERE is_stale`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stale match scores: %w", err)
	}
	return n, nil
}

func (db *DB) execCount(ctx context.Context, op, sql string, args ...any) (int, error) {
	result, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return int(result.RowsAffected()), nil
}
