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

// subjectRepository is the PostgreSQL implementation of SubjectRepository
type subjectRepository struct {
	db Querier
}

// Create inserts a new subject
func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (code, name, description, units, year_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		subject.Code, subject.Name, subject.Description, subject.Units, subject.YearLevel,
	).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintSubjectCode) {
			return apperrors.ErrSubjectCodeExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *subjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `
		SELECT id, code, name, description, units, year_level, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Code,
		&subject.Name,
		&subject.Description,
		&subject.Units,
		&subject.YearLevel,
		&subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// GetAll retrieves all subjects ordered by year level then code
func (r *subjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	query := `
		SELECT id, code, name, description, units, year_level, created_at
		FROM subjects
		ORDER BY year_level, code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubjects(rows)
}

func collectSubjects(rows pgx.Rows) ([]*models.Subject, error) {
	var subjects []*models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Code,
			&subject.Name,
			&subject.Description,
			&subject.Units,
			&subject.YearLevel,
			&subject.CreatedAt,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// Update updates an existing subject
func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `
		UPDATE subjects
		SET code = $1, name = $2, description = $3, units = $4, year_level = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		subject.Code, subject.Name, subject.Description, subject.Units,
		subject.YearLevel, subject.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintSubjectCode) {
			return apperrors.ErrSubjectCodeExists
		}
		return fmt.Errorf("error updating subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// Delete removes a subject; enrollments, assessments, weights and prerequisite
// edges go with it (ON DELETE CASCADE)
func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// GetPrerequisites retrieves the direct prerequisites of a subject
func (r *subjectRepository) GetPrerequisites(ctx context.Context, subjectID int64) ([]*models.Subject, error) {
	query := `
		SELECT s.id, s.code, s.name, s.description, s.units, s.year_level, s.created_at
		FROM subjects s
		JOIN subject_prerequisites sp ON sp.prerequisite_id = s.id
		WHERE sp.subject_id = $1
		ORDER BY s.code
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubjects(rows)
}

// AddPrerequisite attaches a prerequisite edge
func (r *subjectRepository) AddPrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error {
	query := `
		INSERT INTO subject_prerequisites (subject_id, prerequisite_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, subjectID, prerequisiteID); err != nil {
		return fmt.Errorf("error adding prerequisite: %w", err)
	}

	return nil
}

// RemovePrerequisite detaches a prerequisite edge
func (r *subjectRepository) RemovePrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error {
	query := `DELETE FROM subject_prerequisites WHERE subject_id = $1 AND prerequisite_id = $2`

	cmdTag, err := r.db.Exec(ctx, query, subjectID, prerequisiteID)
	if err != nil {
		return fmt.Errorf("error removing prerequisite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPrerequisiteNotFound
	}

	return nil
}

// Count returns the number of subjects
func (r *subjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
