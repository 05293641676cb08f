package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/dberrors"
)

// enrollmentRepository is the PostgreSQL implementation of EnrollmentRepository
type enrollmentRepository struct {
	db Querier
}

// GetByStudentAndSubject returns the enrollment row for the pair, active or
// not, or (nil, nil) when none exists. The history keeps at most one row per
// pair: active enrollments are unique by constraint and inactive rows are
// reactivated in place rather than duplicated.
func (r *enrollmentRepository) GetByStudentAndSubject(ctx context.Context, studentID, subjectID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, subject_id, enrollment_date, is_active
		FROM enrollments
		WHERE student_id = $1 AND subject_id = $2
		ORDER BY is_active DESC, enrollment_date DESC
		LIMIT 1
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID, subjectID).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.SubjectID,
		&enrollment.EnrollmentDate,
		&enrollment.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// ActiveExists reports whether the student is actively enrolled in the subject
func (r *enrollmentRepository) ActiveExists(ctx context.Context, studentID, subjectID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND subject_id = $2 AND is_active
		)`,
		studentID, subjectID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new active enrollment. A race with a concurrent enroll for
// the same pair surfaces as ErrAlreadyEnrolled via the partial unique index.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, subject_id, enrollment_date, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		enrollment.StudentID, enrollment.SubjectID, enrollment.EnrollmentDate, enrollment.IsActive,
	).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintActiveEnrollment) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// Reactivate flips an inactive enrollment back on and refreshes its date
func (r *enrollmentRepository) Reactivate(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET is_active = TRUE, enrollment_date = $1
		WHERE id = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, enrollment.EnrollmentDate, enrollment.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintActiveEnrollment) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error reactivating enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	enrollment.IsActive = true
	return nil
}

// Deactivate sets is_active=false on an active enrollment; reports whether an
// active row was matched. An already-inactive row is indistinguishable from an
// absent one here.
func (r *enrollmentRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE enrollments SET is_active = FALSE WHERE id = $1 AND is_active`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("error deactivating enrollment: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// List retrieves enrollments matching the filter
func (r *enrollmentRepository) List(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.subject_id, e.enrollment_date, e.is_active,
			s.id, s.code, s.name, s.description, s.units, s.year_level, s.created_at
		FROM enrollments e
		JOIN subjects s ON s.id = e.subject_id
		WHERE TRUE
	`
	args := []any{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		query += fmt.Sprintf(" AND e.student_id = $%d", len(args))
	}
	if filter.SubjectID != nil {
		args = append(args, *filter.SubjectID)
		query += fmt.Sprintf(" AND e.subject_id = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND e.is_active = $%d", len(args))
	}
	query += " ORDER BY e.enrollment_date DESC, e.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var subject models.Subject
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.SubjectID,
			&enrollment.EnrollmentDate,
			&enrollment.IsActive,
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
		enrollment.Subject = &subject
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ActiveRoster returns active enrollments for a subject with the Student
// relation loaded, optionally narrowed to one section, ordered by student name
func (r *enrollmentRepository) ActiveRoster(ctx context.Context, subjectID int64, sectionID *int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.subject_id, e.enrollment_date, e.is_active,
			st.id, st.student_id, st.first_name, st.last_name, st.email, st.phone,
			st.date_of_birth, st.address, st.section_id, st.enrollment_date,
			st.is_active, st.created_at, st.updated_at
		FROM enrollments e
		JOIN students st ON st.id = e.student_id
		WHERE e.subject_id = $1 AND e.is_active
	`
	args := []any{subjectID}

	if sectionID != nil {
		args = append(args, *sectionID)
		query += fmt.Sprintf(" AND st.section_id = $%d", len(args))
	}
	query += " ORDER BY st.last_name, st.first_name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var student models.Student
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.SubjectID,
			&enrollment.EnrollmentDate,
			&enrollment.IsActive,
			&student.ID,
			&student.StudentID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Phone,
			&student.DateOfBirth,
			&student.Address,
			&student.SectionID,
			&student.EnrollmentDate,
			&student.IsActive,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		enrollment.Student = &student
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ActiveByStudent returns a student's active enrollments with Subject loaded
func (r *enrollmentRepository) ActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	active := true
	return r.List(ctx, dto.EnrollmentFilter{StudentID: &studentID, IsActive: &active})
}

// Count returns the number of enrollment rows
func (r *enrollmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
