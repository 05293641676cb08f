package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names enforced by the schema. The store guards the uniqueness
// invariants at the transaction boundary; callers map violations of these
// constraints back to domain errors.
const (
	ConstraintActiveEnrollment  = "uq_enrollments_active_student_subject"
	ConstraintStudentAssessment = "uq_grades_student_assessment"
	ConstraintSubjectCode       = "uq_subjects_code"
	ConstraintStudentEmail      = "uq_students_email"
	ConstraintStudentNumber     = "uq_students_student_id"
	ConstraintUserEmail         = "uq_users_email"
	ConstraintSubjectWeights    = "uq_grade_weights_subject"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation checks if the error is any PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
