package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/swipe-matcher/internal/types"
)

const recommendationColumns = `id, user_id, job_id, recommendation_type, recommendation_score, rank,
	is_shown, shown_at, matching_skills, missing_skills, strength_points, improvement_suggestions,
	recommendation_reason, algorithm_version, published_at`

// ReplaceRecommendations swaps the user's feed for recs in one transaction
func (db *DB) ReplaceRecommendations(ctx context.Context, userID uuid.UUID, recs []types.AIRecommendation) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM ai_recommendations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range recs {
		r := &recs[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		matched, missing, strengths, suggestions, err := marshalRecLists(r)
		if err != nil {
			return err
		}
		batch.Queue(
			`INSERT INTO ai_recommendations (`+recommendationColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			r.ID, userID, r.JobID, string(r.RecommendationType), r.RecommendationScore, r.Rank,
			r.IsShown, r.ShownAt, matched, missing, strengths, suggestions,
			r.Explanation, r.AlgorithmVersion, r.PublishedAt,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert recommendations: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func marshalRecLists(r *types.AIRecommendation) (matched, missing, strengths, suggestions []byte, err error) {
	lists := []struct {
		name string
		v    []string
		out  *[]byte
	}{
		{"matching_skills", r.MatchedSkills, &matched},
		{"missing_skills", r.MissingSkills, &missing},
		{"strength_points", r.StrengthPoints, &strengths},
		{"improvement_suggestions", r.ImprovementSuggestions, &suggestions},
	}
	for _, l := range lists {
		v := l.v
		if v == nil {
			v = []string{}
		}
		b, mErr := json.Marshal(v)
		if mErr != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal %s: %w", l.name, mErr)
		}
		*l.out = b
	}
	return matched, missing, strengths, suggestions, nil
}

// ListRecommendations returns the user's feed ordered by rank
func (db *DB) ListRecommendations(ctx context.Context, userID uuid.UUID) ([]types.AIRecommendation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+recommendationColumns+` FROM ai_recommendations WHERE user_id = $1 ORDER BY rank`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	out := []types.AIRecommendation{}
	for rows.Next() {
		var r types.AIRecommendation
		var recType string
		var matched, missing, strengths, suggestions []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.JobID, &recType, &r.RecommendationScore, &r.Rank,
			&r.IsShown, &r.ShownAt, &matched, &missing, &strengths, &suggestions,
			&r.Explanation, &r.AlgorithmVersion, &r.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		r.RecommendationType = types.RecommendationType(recType)
		for _, pair := range []struct {
			raw []byte
			dst *[]string
		}{{matched, &r.MatchedSkills}, {missing, &r.MissingSkills}, {strengths, &r.StrengthPoints}, {suggestions, &r.ImprovementSuggestions}} {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendation lists: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkRecommendationsShown stamps shown_at on the listed feed rows that were not shown yet
func (db *DB) MarkRecommendationsShown(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID, at time.Time) error {
	if len(jobIDs) == 0 {
		return nil
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE ai_recommendations SET is_shown = TRUE, shown_at = $3
		 WHERE user_id = $1 AND job_id = ANY($2) AND NOT is_shown`,
		userID, jobIDs, at,
	)
	if err != nil {
		return fmt.Errorf("failed to mark recommendations shown: %w", err)
	}
	return nil
}

// DeleteRecommendationsByUser removes the user's feed
func (db *DB) DeleteRecommendationsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete recommendations by user", `DELETE FROM ai_recommendations WHERE user_id = $1`, userID)
}

// DeleteRecommendationsByJob removes the job from every feed
func (db *DB) DeleteRecommendationsByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete recommendations by job", `DELETE FROM ai_recommendations WHERE job_id = $1`, jobID)
}
