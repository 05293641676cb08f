package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

func seedStudent(t *testing.T, repos *repositories.Repositories, studentNumber string, sectionID *int64) *models.Student {
	t.Helper()
	student := &models.Student{
		StudentID:   studentNumber,
		FirstName:   "Test",
		LastName:    studentNumber,
		Email:       studentNumber + "@example.com",
		DateOfBirth: time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC),
		SectionID:   sectionID,
		IsActive:    true,
	}
	require.NoError(t, repos.Students.Create(context.Background(), student))
	return student
}

func seedSection(t *testing.T, repos *repositories.Repositories, name string) *models.Section {
	t.Helper()
	section := &models.Section{Name: name, YearLevel: 1}
	require.NoError(t, repos.Sections.Create(context.Background(), section))
	return section
}

func TestEnroll(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)

	resp, err := service.Enroll(context.Background(), dto.EnrollRequest{
		StudentID: "2024-0001",
		SubjectID: subject.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, student.ID, resp.StudentID)
	assert.Equal(t, subject.ID, resp.SubjectID)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.Reactivated)
	assert.NotZero(t, resp.EnrollmentID)
}

func TestEnrollDuplicateReportsExistingEnrollment(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")
	seedStudent(t, repos, "2024-0001", nil)

	req := dto.EnrollRequest{StudentID: "2024-0001", SubjectID: subject.ID}
	first, err := service.Enroll(context.Background(), req)
	require.NoError(t, err)

	_, err = service.Enroll(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	var customErr *apperrors.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, first.EnrollmentID, customErr.Details["enrollment_id"])
}

func TestEnrollReactivatesInactiveEnrollment(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")
	seedStudent(t, repos, "2024-0001", nil)

	req := dto.EnrollRequest{StudentID: "2024-0001", SubjectID: subject.ID}
	first, err := service.Enroll(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, service.Unenroll(context.Background(), first.EnrollmentID))

	second, err := service.Enroll(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Reactivated)
	assert.True(t, second.IsActive)
	// The row is reused, not duplicated.
	assert.Equal(t, first.EnrollmentID, second.EnrollmentID)
}

func TestEnrollUnknownStudentOrSubject(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")

	_, err := service.Enroll(context.Background(), dto.EnrollRequest{StudentID: "ghost", SubjectID: subject.ID})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	seedStudent(t, repos, "2024-0001", nil)
	_, err = service.Enroll(context.Background(), dto.EnrollRequest{StudentID: "2024-0001", SubjectID: 999})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestBulkEnrollMixedOutcomes(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)

	prerequisite := seedSubject(t, repos, "CS100")
	subject := seedSubject(t, repos, "CS101")
	require.NoError(t, repos.Subjects.AddPrerequisite(context.Background(), subject.ID, prerequisite.ID))

	section := seedSection(t, repos, "1-A")
	alreadyEnrolled := seedStudent(t, repos, "2024-0001", &section.ID)
	missingPrereq := seedStudent(t, repos, "2024-0002", &section.ID)
	eligible := seedStudent(t, repos, "2024-0003", &section.ID)

	// The first student is already in the subject; the third satisfies the
	// prerequisite; the second satisfies nothing.
	require.NoError(t, repos.Enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: alreadyEnrolled.ID, SubjectID: subject.ID, IsActive: true,
	}))
	require.NoError(t, repos.Enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: alreadyEnrolled.ID, SubjectID: prerequisite.ID, IsActive: true,
	}))
	require.NoError(t, repos.Enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: eligible.ID, SubjectID: prerequisite.ID, IsActive: true,
	}))

	result, err := service.BulkEnroll(context.Background(), subject.ID, dto.BulkEnrollRequest{
		SectionIDs: []int64{section.ID},
	})
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	assert.Equal(t, eligible.ID, result.Successful[0].StudentID)

	require.Len(t, result.Failed, 2)
	assert.Equal(t, alreadyEnrolled.ID, result.Failed[0].StudentID)
	assert.Equal(t, "Already enrolled", result.Failed[0].Reason)
	assert.Equal(t, missingPrereq.ID, result.Failed[1].StudentID)
	assert.Equal(t, "Missing prerequisites: CS100", result.Failed[1].Reason)
}

func TestBulkEnrollUnknownSubject(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)

	_, err := service.BulkEnroll(context.Background(), 999, dto.BulkEnrollRequest{SectionIDs: []int64{1}})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestUnenroll(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")
	seedStudent(t, repos, "2024-0001", nil)

	resp, err := service.Enroll(context.Background(), dto.EnrollRequest{StudentID: "2024-0001", SubjectID: subject.ID})
	require.NoError(t, err)

	require.NoError(t, service.Unenroll(context.Background(), resp.EnrollmentID))

	// Already inactive, so a second unenroll finds nothing to deactivate.
	err = service.Unenroll(context.Background(), resp.EnrollmentID)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)

	err = service.Unenroll(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestEnrolledStudents(t *testing.T) {
	repos := newTestRepositories()
	service := NewEnrollmentService(repos)
	subject := seedSubject(t, repos, "CS101")
	seedStudent(t, repos, "2024-0001", nil)
	seedStudent(t, repos, "2024-0002", nil)

	_, err := service.Enroll(context.Background(), dto.EnrollRequest{StudentID: "2024-0001", SubjectID: subject.ID})
	require.NoError(t, err)

	roster, err := service.EnrolledStudents(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "2024-0001", roster[0].StudentID)
}
