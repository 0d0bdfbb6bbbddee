package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/shared"
)

const recommendationColumns = `id, name, youtube_link, score, created_at, updated_at`

// RecommendationRepository persists recommendations in SQLite.
//
// Rows are soft deleted; every query ignores rows with a deleted_at timestamp. Live names are unique through a
// partial index, so a concurrent duplicate insert fails with [shared.ErrConflict] instead of creating a second row.
type RecommendationRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecommendationRepository creates a new RecommendationRepository with the given database connection
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db, now: time.Now}
}

// Create inserts a new recommendation with a zero score
func (r *RecommendationRepository) Create(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := r.now().UTC()
	query := `
		INSERT INTO recommendations (name, youtube_link, score, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, input.Name, input.YouTubeLink, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", shared.ErrConflict, input.Name)
		}
		return nil, fmt.Errorf("failed to insert recommendation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return &models.Recommendation{
		ID:          id,
		Name:        input.Name,
		YouTubeLink: input.YouTubeLink,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// FindByID retrieves a live recommendation, returning (nil, nil) when none matches
func (r *RecommendationRepository) FindByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByName retrieves a live recommendation by exact name, returning (nil, nil) when none matches
func (r *RecommendationRepository) FindByName(ctx context.Context, name string) (*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE name = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// UpdateScore moves the score by one in the given direction and returns the updated row.
//
// The update is relative (score = score + ?) and the read happens in the same transaction, so the returned score
// is the one this vote produced.
func (r *RecommendationRepository) UpdateScore(ctx context.Context, id int64, direction models.Direction) (*models.Recommendation, error) {
	if direction != models.Increment && direction != models.Decrement {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidInput, direction)
	}

	var rec *models.Recommendation
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE recommendations
			SET score = score + ?, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL
		`

		result, err := tx.ExecContext(ctx, query, int(direction), r.now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
		if err := expectOneRow(result, id); err != nil {
			return err
		}

		rec, err = r.scanOne(tx.QueryRowContext(ctx,
			`SELECT `+recommendationColumns+` FROM recommendations WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Remove soft-deletes a recommendation by ID
func (r *RecommendationRepository) Remove(ctx context.Context, id int64) error {
	query := `
		UPDATE recommendations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}
	return expectOneRow(result, id)
}

// FindAll lists live recommendations newest first, optionally restricted by a score filter
func (r *RecommendationRepository) FindAll(ctx context.Context, filter *models.ScoreFilter) ([]models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE deleted_at IS NULL`
	args := []any{}

	if filter != nil {
		switch filter.Comparison {
		case models.GreaterThan:
			query += " AND score > ?"
		case models.LessThanOrEqual:
			query += " AND score <= ?"
		default:
			return nil, fmt.Errorf("%w: unknown comparison %q", shared.ErrInvalidInput, filter.Comparison)
		}
		args = append(args, filter.Score)
	}

	query += " ORDER BY id DESC"
	return r.list(ctx, query, args...)
}

// FindLatest lists up to limit live recommendations newest first
func (r *RecommendationRepository) FindLatest(ctx context.Context, limit int) ([]models.Recommendation, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", shared.ErrInvalidAmount, limit)
	}

	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE deleted_at IS NULL
		ORDER BY id DESC
		LIMIT ?
	`
	return r.list(ctx, query, limit)
}

// FindTop lists up to limit live recommendations by score descending, ties broken by ascending ID
func (r *RecommendationRepository) FindTop(ctx context.Context, limit int) ([]models.Recommendation, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", shared.ErrInvalidAmount, limit)
	}

	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE deleted_at IS NULL
		ORDER BY score DESC, id ASC
		LIMIT ?
	`
	return r.list(ctx, query, limit)
}

func (r *RecommendationRepository) list(ctx context.Context, query string, args ...any) ([]models.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	recs := []models.Recommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recs, nil
}

// scanOne scans a single [sql.Row], mapping [sql.ErrNoRows] to (nil, nil)
func (r *RecommendationRepository) scanOne(row *sql.Row) (*models.Recommendation, error) {
	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(s scanner) (*models.Recommendation, error) {
	var rec models.Recommendation

	err := s.Scan(&rec.ID, &rec.Name, &rec.YouTubeLink, &rec.Score, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}

	return &rec, nil
}

func expectOneRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: recommendation %d not found or already deleted", shared.ErrNotFound, id)
	}
	return nil
}
