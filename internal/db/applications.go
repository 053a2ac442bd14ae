package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
)

const applicationColumns = `id, user_id, job_id, swipe_id, application_status, application_method,
	is_auto_applied, match_score, submitted_at, last_status_update_at, COALESCE(rejection_reason, ''),
	history, created_at`

// liveStatusFilter matches statuses that block a second application for the pair
const liveStatusFilter = `application_status NOT IN ('rejected', 'withdrawn')`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var status, method string
	var history []byte
	if err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.SwipeID, &status, &method,
		&a.IsAutoApplied, &a.MatchScore, &a.SubmittedAt, &a.LastStatusUpdateAt, &a.RejectionReason,
		&history, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = types.ApplicationStatus(status)
	a.Method = types.ApplicationMethod(method)
	if err := json.Unmarshal(history, &a.History); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return &a, nil
}

// CreateApplication inserts an application. The partial unique index on live
// applications turns a concurrent second insert into DuplicateApplicationError.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	history, err := json.Marshal(historyOrEmpty(app.History))
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, swipe_id, application_status, application_method,
		     is_auto_applied, match_score, submitted_at, last_status_update_at, rejection_reason, history, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		app.ID, app.UserID, app.JobID, app.SwipeID, string(app.Status), string(app.Method),
		app.IsAutoApplied, app.MatchScore, app.SubmittedAt, app.LastStatusUpdateAt,
		nullIfEmpty(app.RejectionReason), history, app.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			dup := &apperrors.DuplicateApplicationError{UserID: app.UserID, JobID: app.JobID}
			if existing, findErr := db.FindLiveApplication(ctx, app.UserID, app.JobID); findErr == nil {
				dup.ExistingID = existing.ID
			}
			return dup
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication returns an application by id
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("application", id)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// FindLiveApplication returns the live application for the pair
func (db *DB) FindLiveApplication(ctx context.Context, userID, jobID uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 AND job_id = $2 AND `+liveStatusFilter,
		userID, jobID,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, &apperrors.NotFoundError{Entity: "live application", ID: userID.String() + "/" + jobID.String()}
		}
		return nil, fmt.Errorf("failed to find live application: %w", err)
	}
	return a, nil
}

// UpdateApplication writes app if the stored status still equals expected
func (db *DB) UpdateApplication(ctx context.Context, app *types.Application, expected types.ApplicationStatus) error {
	history, err := json.Marshal(historyOrEmpty(app.History))
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET application_status = $2, submitted_at = $3, last_status_update_at = $4,
		     rejection_reason = $5, history = $6
		 WHERE id = $1 AND application_status = $7`,
		app.ID, string(app.Status), app.SubmittedAt, app.LastStatusUpdateAt,
		nullIfEmpty(app.RejectionReason), history, string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	current, err := db.GetApplication(ctx, app.ID)
	if err != nil {
		return err
	}
	return &apperrors.InvalidTransitionError{From: string(current.Status), To: string(app.Status)}
}

// ListApplications returns matching applications, newest first
func (db *DB) ListApplications(ctx context.Context, filter store.ApplicationFilter) ([]*types.Application, error) {
	var conds []string
	var args []any
	if filter.UserID != uuid.Nil {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.JobID != uuid.Nil {
		args = append(args, filter.JobID)
		conds = append(conds, fmt.Sprintf("job_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("application_status = $%d", len(args)))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []*types.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func historyOrEmpty(h []types.StatusChange) []types.StatusChange {
	if h == nil {
		return []types.StatusChange{}
	}
	return h
}
