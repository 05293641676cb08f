package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
)

// Querier is the subset of pgx operations the repositories need. It is
// satisfied by both *pgxpool.Pool and pgx.Tx, which lets the same repository
// code run inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository handles database operations for auth users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenRepository handles database operations for refresh tokens
type TokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

// StudentRepository handles database operations for students
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentNumber(ctx context.Context, studentNumber string) (*models.Student, error)
	GetAll(ctx context.Context, sectionID *int64) ([]*models.Student, error)
	GetBySectionIDs(ctx context.Context, sectionIDs []int64) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	HasGrades(ctx context.Context, studentID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// SectionRepository handles database operations for sections
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	GetAll(ctx context.Context) ([]*models.Section, error)
	Count(ctx context.Context) (int64, error)
}

// SubjectRepository handles database operations for subjects and their prerequisite graph
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
	GetPrerequisites(ctx context.Context, subjectID int64) ([]*models.Subject, error)
	AddPrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error
	RemovePrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error
	Count(ctx context.Context) (int64, error)
}

// WeightRepository handles database operations for grade weights
type WeightRepository interface {
	// GetBySubjectID returns (nil, nil) when the subject has no weights row yet.
	GetBySubjectID(ctx context.Context, subjectID int64) (*models.GradeWeight, error)
	Create(ctx context.Context, weights *models.GradeWeight) error
	Update(ctx context.Context, weights *models.GradeWeight) error
}

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository interface {
	// GetByStudentAndSubject returns the single enrollment row for the pair,
	// active or not, or (nil, nil) when none exists.
	GetByStudentAndSubject(ctx context.Context, studentID, subjectID int64) (*models.Enrollment, error)
	ActiveExists(ctx context.Context, studentID, subjectID int64) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Reactivate(ctx context.Context, enrollment *models.Enrollment) error
	// Deactivate flips is_active off; reports whether an active row was matched.
	Deactivate(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error)
	// ActiveRoster returns active enrollments for a subject with the Student
	// relation loaded, optionally narrowed to one section, ordered by student name.
	ActiveRoster(ctx context.Context, subjectID int64, sectionID *int64) ([]*models.Enrollment, error)
	// ActiveByStudent returns a student's active enrollments with Subject loaded.
	ActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	Count(ctx context.Context) (int64, error)
}

// AssessmentRepository handles database operations for assessments
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id int64) (*models.Assessment, error)
	// GetBySubject returns a subject's assessments ordered by date then name,
	// optionally narrowed to one type.
	GetBySubject(ctx context.Context, subjectID int64, assessmentType *models.AssessmentType) ([]*models.Assessment, error)
	Update(ctx context.Context, assessment *models.Assessment) error
	// Delete removes the assessment; its grades go with it (ON DELETE CASCADE).
	Delete(ctx context.Context, id int64) error
}

// GradeRepository handles database operations for grades
type GradeRepository interface {
	// Upsert writes the unique (student, assessment) grade, updating the score
	// and remarks when the row already exists.
	Upsert(ctx context.Context, grade *models.Grade) error
	// GetByStudentAndSubject returns a student's grades for one subject with
	// the Assessment relation loaded.
	GetByStudentAndSubject(ctx context.Context, studentID, subjectID int64) ([]*models.Grade, error)
	List(ctx context.Context, studentID, subjectID *int64) ([]*models.Grade, error)
}

// Repositories bundles the entity store. Services reach every entity through
// it, and WithTx gives them an all-or-nothing scope for bulk operations.
type Repositories struct {
	pool *pgxpool.Pool

	Users       UserRepository
	Tokens      TokenRepository
	Students    StudentRepository
	Sections    SectionRepository
	Subjects    SubjectRepository
	Weights     WeightRepository
	Enrollments EnrollmentRepository
	Assessments AssessmentRepository
	Grades      GradeRepository
}

// NewRepositories initializes all repositories over a connection pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	r := newFromQuerier(pool)
	r.pool = pool
	return r
}

func newFromQuerier(q Querier) *Repositories {
	return &Repositories{
		Users:       &userRepository{db: q},
		Tokens:      &tokenRepository{db: q},
		Students:    &studentRepository{db: q},
		Sections:    &sectionRepository{db: q},
		Subjects:    &subjectRepository{db: q},
		Weights:     &weightRepository{db: q},
		Enrollments: &enrollmentRepository{db: q},
		Assessments: &assessmentRepository{db: q},
		Grades:      &gradeRepository{db: q},
	}
}

// WithTx runs fn against a repository set bound to a single transaction.
// A storage fault or an error returned by fn rolls back everything written in
// the scope; logical per-item failures must be recorded as data by fn, not
// returned as errors.
func (r *Repositories) WithTx(ctx context.Context, fn func(txRepos *Repositories) error) error {
	if r.pool == nil {
		// Already transaction-bound (or an in-memory test double); run in place.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op once the transaction has been committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newFromQuerier(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
