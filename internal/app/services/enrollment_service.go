package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, req dto.EnrollRequest) (*dto.EnrollResponse, error)
	BulkEnroll(ctx context.Context, subjectID int64, req dto.BulkEnrollRequest) (*dto.BulkEnrollResult, error)
	Unenroll(ctx context.Context, enrollmentID int64) error
	ListEnrollments(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error)
	EnrolledStudents(ctx context.Context, subjectID int64) ([]dto.EnrolledStudentResponse, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	repos *repositories.Repositories
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(repos *repositories.Repositories) EnrollmentService {
	return &enrollmentServiceImpl{repos: repos}
}

// Enroll enrolls a student (looked up by student number) into a subject.
// A previously deactivated enrollment for the pair is reactivated in place
// with a fresh date instead of inserting a second history row.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, req dto.EnrollRequest) (*dto.EnrollResponse, error) {
	subject, err := s.repos.Subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	student, err := s.repos.Students.GetByStudentNumber(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repos.Enrollments.GetByStudentAndSubject(ctx, student.ID, subject.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled,
			"student is already enrolled in this subject").WithDetails(map[string]interface{}{
			"enrollment_id":   existing.ID,
			"enrollment_date": existing.EnrollmentDate,
		})
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var enrollment *models.Enrollment
	reactivated := false
	if existing != nil {
		existing.EnrollmentDate = today
		if err := s.repos.Enrollments.Reactivate(ctx, existing); err != nil {
			return nil, err
		}
		enrollment = existing
		reactivated = true
	} else {
		enrollment = &models.Enrollment{
			StudentID:      student.ID,
			SubjectID:      subject.ID,
			EnrollmentDate: today,
			IsActive:       true,
		}
		if err := s.repos.Enrollments.Create(ctx, enrollment); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int64("student_id", student.ID).
		Int64("subject_id", subject.ID).
		Bool("reactivated", reactivated).
		Msg("Student enrolled")

	return &dto.EnrollResponse{
		EnrollmentID:   enrollment.ID,
		StudentID:      student.ID,
		StudentName:    student.FullName(),
		SubjectID:      subject.ID,
		SubjectName:    subject.Name,
		EnrollmentDate: enrollment.EnrollmentDate,
		IsActive:       enrollment.IsActive,
		Reactivated:    reactivated,
	}, nil
}

// BulkEnroll enrolls every student of the given sections into a subject. The
// whole batch runs in one transaction; per-student logical failures (already
// enrolled, missing prerequisites) are recorded and do not abort the batch,
// while a storage fault rolls everything back.
func (s *enrollmentServiceImpl) BulkEnroll(ctx context.Context, subjectID int64, req dto.BulkEnrollRequest) (*dto.BulkEnrollResult, error) {
	subject, err := s.repos.Subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	prerequisites, err := s.repos.Subjects.GetPrerequisites(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	result := &dto.BulkEnrollResult{
		Successful: []dto.BulkEnrollOutcome{},
		Failed:     []dto.BulkEnrollOutcome{},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	err = s.repos.WithTx(ctx, func(txRepos *repositories.Repositories) error {
		students, err := txRepos.Students.GetBySectionIDs(ctx, req.SectionIDs)
		if err != nil {
			return err
		}

		for _, student := range students {
			outcome := dto.BulkEnrollOutcome{StudentID: student.ID, Name: student.FullName()}

			active, err := txRepos.Enrollments.ActiveExists(ctx, student.ID, subject.ID)
			if err != nil {
				return err
			}
			if active {
				outcome.Reason = "Already enrolled"
				result.Failed = append(result.Failed, outcome)
				continue
			}

			missing, err := missingPrerequisites(ctx, txRepos.Enrollments, student.ID, prerequisites)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				outcome.Reason = "Missing prerequisites: " + strings.Join(missing, ", ")
				result.Failed = append(result.Failed, outcome)
				continue
			}

			existing, err := txRepos.Enrollments.GetByStudentAndSubject(ctx, student.ID, subject.ID)
			if err != nil {
				return err
			}

			if existing != nil {
				existing.EnrollmentDate = today
				err = txRepos.Enrollments.Reactivate(ctx, existing)
			} else {
				err = txRepos.Enrollments.Create(ctx, &models.Enrollment{
					StudentID:      student.ID,
					SubjectID:      subject.ID,
					EnrollmentDate: today,
					IsActive:       true,
				})
			}
			if err != nil {
				if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
					outcome.Reason = "Already enrolled"
					result.Failed = append(result.Failed, outcome)
					continue
				}
				return err
			}

			result.Successful = append(result.Successful, outcome)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("subject_id", subjectID).
		Int("successful", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Msg("Bulk enrollment completed")

	return result, nil
}

// missingPrerequisites returns the codes of prerequisite subjects the student
// is not actively enrolled in, sorted for a stable failure message
func missingPrerequisites(ctx context.Context, enrollments repositories.EnrollmentRepository, studentID int64, prerequisites []*models.Subject) ([]string, error) {
	var missing []string
	for _, prerequisite := range prerequisites {
		enrolled, err := enrollments.ActiveExists(ctx, studentID, prerequisite.ID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			missing = append(missing, prerequisite.Code)
		}
	}

	sort.Strings(missing)
	return missing, nil
}

// Unenroll deactivates an enrollment, preserving the row and any grade history
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, enrollmentID int64) error {
	deactivated, err := s.repos.Enrollments.Deactivate(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if !deactivated {
		return apperrors.ErrEnrollmentNotFound
	}

	logger.Info().Int64("enrollment_id", enrollmentID).Msg("Student unenrolled")
	return nil
}

// ListEnrollments retrieves enrollments matching the filter
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	return s.repos.Enrollments.List(ctx, filter)
}

// EnrolledStudents returns the active roster of a subject
func (s *enrollmentServiceImpl) EnrolledStudents(ctx context.Context, subjectID int64) ([]dto.EnrolledStudentResponse, error) {
	if _, err := s.repos.Subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	roster, err := s.repos.Enrollments.ActiveRoster(ctx, subjectID, nil)
	if err != nil {
		return nil, err
	}

	students := make([]dto.EnrolledStudentResponse, 0, len(roster))
	for _, enrollment := range roster {
		students = append(students, dto.EnrolledStudentResponse{
			ID:             enrollment.Student.ID,
			StudentID:      enrollment.Student.StudentID,
			FirstName:      enrollment.Student.FirstName,
			LastName:       enrollment.Student.LastName,
			EnrollmentDate: enrollment.EnrollmentDate,
		})
	}

	return students, nil
}
