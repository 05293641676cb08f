package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// assessmentRepository is the PostgreSQL implementation of AssessmentRepository
type assessmentRepository struct {
	db Querier
}

// Create inserts a new assessment
func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (subject_id, name, assessment_type, max_score, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		assessment.SubjectID, assessment.Name, assessment.Type,
		assessment.MaxScore, assessment.Date,
	).Scan(&assessment.ID, &assessment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating assessment: %w", err)
	}

	return nil
}

// GetByID retrieves an assessment by ID
func (r *assessmentRepository) GetByID(ctx context.Context, id int64) (*models.Assessment, error) {
	query := `
		SELECT id, subject_id, name, assessment_type, max_score, date, created_at
		FROM assessments
		WHERE id = $1
	`

	var assessment models.Assessment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.SubjectID,
		&assessment.Name,
		&assessment.Type,
		&assessment.MaxScore,
		&assessment.Date,
		&assessment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assessment: %w", err)
	}

	return &assessment, nil
}

// GetBySubject returns a subject's assessments ordered by date then name,
// optionally narrowed to one type. NULL dates sort last.
func (r *assessmentRepository) GetBySubject(ctx context.Context, subjectID int64, assessmentType *models.AssessmentType) ([]*models.Assessment, error) {
	query := `
		SELECT id, subject_id, name, assessment_type, max_score, date, created_at
		FROM assessments
		WHERE subject_id = $1
	`
	args := []any{subjectID}

	if assessmentType != nil {
		args = append(args, *assessmentType)
		query += fmt.Sprintf(" AND assessment_type = $%d", len(args))
	}
	query += " ORDER BY date NULLS LAST, name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		var assessment models.Assessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.SubjectID,
			&assessment.Name,
			&assessment.Type,
			&assessment.MaxScore,
			&assessment.Date,
			&assessment.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, &assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assessments, nil
}

// Update updates an existing assessment
func (r *assessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	query := `
		UPDATE assessments
		SET name = $1, assessment_type = $2, max_score = $3, date = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		assessment.Name, assessment.Type, assessment.MaxScore,
		assessment.Date, assessment.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating assessment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssessmentNotFound
	}

	return nil
}

// Delete removes an assessment; its grades cascade
func (r *assessmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assessment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssessmentNotFound
	}

	return nil
}
