package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
)

// gradeRepository is the PostgreSQL implementation of GradeRepository
type gradeRepository struct {
	db Querier
}

// Upsert writes the unique (student, assessment) grade. A second submission
// for the same pair updates the existing row in place, which also absorbs
// races between concurrent submissions.
func (r *gradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (student_id, assessment_id, score, remarks)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT uq_grades_student_assessment
		DO UPDATE SET score = EXCLUDED.score, remarks = EXCLUDED.remarks, updated_at = NOW()
		RETURNING id, date_recorded, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		grade.StudentID, grade.AssessmentID, grade.Score, grade.Remarks,
	).Scan(&grade.ID, &grade.DateRecorded, &grade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting grade: %w", err)
	}

	return nil
}

const gradeWithAssessmentColumns = `
	g.id, g.student_id, g.assessment_id, g.score, g.remarks, g.date_recorded, g.updated_at,
	a.id, a.subject_id, a.name, a.assessment_type, a.max_score, a.date, a.created_at
`

func collectGradesWithAssessments(rows pgx.Rows) ([]*models.Grade, error) {
	var grades []*models.Grade
	for rows.Next() {
		var grade models.Grade
		var assessment models.Assessment
		if err := rows.Scan(
			&grade.ID,
			&grade.StudentID,
			&grade.AssessmentID,
			&grade.Score,
			&grade.Remarks,
			&grade.DateRecorded,
			&grade.UpdatedAt,
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
		grade.Assessment = &assessment
		grades = append(grades, &grade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grades, nil
}

// GetByStudentAndSubject returns a student's grades for one subject with the
// Assessment relation loaded
func (r *gradeRepository) GetByStudentAndSubject(ctx context.Context, studentID, subjectID int64) ([]*models.Grade, error) {
	query := `
		SELECT ` + gradeWithAssessmentColumns + `
		FROM grades g
		JOIN assessments a ON a.id = g.assessment_id
		WHERE g.student_id = $1 AND a.subject_id = $2
		ORDER BY a.date NULLS LAST, a.name
	`

	rows, err := r.db.Query(ctx, query, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGradesWithAssessments(rows)
}

// List retrieves grades optionally filtered by student and/or subject
func (r *gradeRepository) List(ctx context.Context, studentID, subjectID *int64) ([]*models.Grade, error) {
	query := `
		SELECT ` + gradeWithAssessmentColumns + `
		FROM grades g
		JOIN assessments a ON a.id = g.assessment_id
		WHERE TRUE
	`
	args := []any{}

	if studentID != nil {
		args = append(args, *studentID)
		query += fmt.Sprintf(" AND g.student_id = $%d", len(args))
	}
	if subjectID != nil {
		args = append(args, *subjectID)
		query += fmt.Sprintf(" AND a.subject_id = $%d", len(args))
	}
	query += " ORDER BY g.date_recorded DESC, g.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGradesWithAssessments(rows)
}
