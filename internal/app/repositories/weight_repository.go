package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/dberrors"
)

// weightRepository is the PostgreSQL implementation of WeightRepository
type weightRepository struct {
	db Querier
}

// GetBySubjectID retrieves a subject's grade weights, or (nil, nil) when the
// subject has no weights row yet
func (r *weightRepository) GetBySubjectID(ctx context.Context, subjectID int64) (*models.GradeWeight, error) {
	query := `
		SELECT id, subject_id, activity_weight, quiz_weight, exam_weight
		FROM grade_weights
		WHERE subject_id = $1
	`

	var weights models.GradeWeight
	err := r.db.QueryRow(ctx, query, subjectID).Scan(
		&weights.ID,
		&weights.SubjectID,
		&weights.ActivityWeight,
		&weights.QuizWeight,
		&weights.ExamWeight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving grade weights: %w", err)
	}

	return &weights, nil
}

// Create inserts a weights row for a subject
func (r *weightRepository) Create(ctx context.Context, weights *models.GradeWeight) error {
	query := `
		INSERT INTO grade_weights (subject_id, activity_weight, quiz_weight, exam_weight)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		weights.SubjectID, weights.ActivityWeight, weights.QuizWeight, weights.ExamWeight,
	).Scan(&weights.ID)
	if err != nil {
		// A concurrent Resolve may have created the row first; the pair is unique.
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintSubjectWeights) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating grade weights: %w", err)
	}

	return nil
}

// Update updates a subject's weights row
func (r *weightRepository) Update(ctx context.Context, weights *models.GradeWeight) error {
	query := `
		UPDATE grade_weights
		SET activity_weight = $1, quiz_weight = $2, exam_weight = $3
		WHERE subject_id = $4
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		weights.ActivityWeight, weights.QuizWeight, weights.ExamWeight, weights.SubjectID,
	).Scan(&weights.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error updating grade weights: %w", err)
	}

	return nil
}
