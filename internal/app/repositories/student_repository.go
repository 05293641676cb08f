package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// studentRepository is the PostgreSQL implementation of StudentRepository
type studentRepository struct {
	db Querier
}

const studentColumns = `
	id, student_id, first_name, last_name, email, phone, date_of_birth,
	address, section_id, enrollment_date, is_active, created_at, updated_at
`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, email, phone,
			date_of_birth, address, section_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, enrollment_date, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.StudentID, student.FirstName, student.LastName, student.Email,
		student.Phone, student.DateOfBirth, student.Address, student.SectionID,
		student.IsActive,
	).Scan(&student.ID, &student.EnrollmentDate, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by primary key
func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByStudentNumber retrieves a student by the registrar-issued student number
func (r *studentRepository) GetByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, studentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetAll retrieves all students, optionally narrowed to one section
func (r *studentRepository) GetAll(ctx context.Context, sectionID *int64) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := []any{}
	if sectionID != nil {
		query += ` WHERE section_id = $1`
		args = append(args, *sectionID)
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStudents(rows)
}

// GetBySectionIDs retrieves every student whose section is in sectionIDs
func (r *studentRepository) GetBySectionIDs(ctx context.Context, sectionIDs []int64) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + `
		FROM students
		WHERE section_id = ANY($1)
		ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, query, sectionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStudents(rows)
}

func collectStudents(rows pgx.Rows) ([]*models.Student, error) {
	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Update updates an existing student
func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
			address = $5, section_id = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.FirstName, student.LastName, student.Email, student.Phone,
		student.Address, student.SectionID, student.IsActive, student.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// HasGrades reports whether any grade rows reference the student
func (r *studentRepository) HasGrades(ctx context.Context, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM grades WHERE student_id = $1)`,
		studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student grades: %w", err)
	}

	return exists, nil
}

// Delete removes a student row. Callers must check HasGrades first; students
// with grade history are soft-retired instead.
func (r *studentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Count returns the number of students
func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
