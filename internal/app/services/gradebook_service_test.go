package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

func TestBuildGradebookZeroFillsMissingGrades(t *testing.T) {
	repos := newTestRepositories()
	service := NewGradebookService(repos)
	gradeService := newGradeService(repos)
	enrollmentService := NewEnrollmentService(repos)

	subject := seedSubject(t, repos, "CS101")
	section := seedSection(t, repos, "1-A")
	student := seedStudent(t, repos, "2024-0001", &section.ID)

	seedAssessment(t, repos, subject.ID, "Midterm", models.AssessmentExam, 100)
	quiz := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 10)

	_, err := enrollmentService.Enroll(context.Background(), dto.EnrollRequest{
		StudentID: "2024-0001", SubjectID: subject.ID,
	})
	require.NoError(t, err)

	_, err = gradeService.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: quiz.ID, Score: 8,
	})
	require.NoError(t, err)

	rows, err := service.Build(context.Background(), subject.ID, &section.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, student.ID, row.StudentID)
	// The ungraded midterm shows as 0 in the matrix.
	assert.Equal(t, 0.0, row.Grades["Midterm"])
	assert.Equal(t, 8.0, row.Grades["Quiz 1"])
	assert.Equal(t, 8.0, row.TotalScore)
	// 8 earned out of 110 possible.
	assert.Equal(t, 7.27, row.AveragePercent)
}

func TestBuildGradebookNoAssessments(t *testing.T) {
	repos := newTestRepositories()
	service := NewGradebookService(repos)
	enrollmentService := NewEnrollmentService(repos)

	subject := seedSubject(t, repos, "CS101")
	section := seedSection(t, repos, "1-A")
	seedStudent(t, repos, "2024-0001", &section.ID)

	_, err := enrollmentService.Enroll(context.Background(), dto.EnrollRequest{
		StudentID: "2024-0001", SubjectID: subject.ID,
	})
	require.NoError(t, err)

	rows, err := service.Build(context.Background(), subject.ID, &section.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// No possible points: the average is 0 rather than a division by zero.
	assert.Equal(t, 0.0, rows[0].AveragePercent)
	assert.Empty(t, rows[0].Grades)
}

func TestBuildGradebookFiltersBySection(t *testing.T) {
	repos := newTestRepositories()
	service := NewGradebookService(repos)
	enrollmentService := NewEnrollmentService(repos)

	subject := seedSubject(t, repos, "CS101")
	sectionA := seedSection(t, repos, "1-A")
	sectionB := seedSection(t, repos, "1-B")
	inA := seedStudent(t, repos, "2024-0001", &sectionA.ID)
	seedStudent(t, repos, "2024-0002", &sectionB.ID)

	for _, number := range []string{"2024-0001", "2024-0002"} {
		_, err := enrollmentService.Enroll(context.Background(), dto.EnrollRequest{
			StudentID: number, SubjectID: subject.ID,
		})
		require.NoError(t, err)
	}

	rows, err := service.Build(context.Background(), subject.ID, &sectionA.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inA.ID, rows[0].StudentID)

	// No section filter: the whole roster.
	rows, err = service.Build(context.Background(), subject.ID, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBuildGradebookUnknownSubjectOrSection(t *testing.T) {
	repos := newTestRepositories()
	service := NewGradebookService(repos)
	subject := seedSubject(t, repos, "CS101")

	_, err := service.Build(context.Background(), 999, nil)
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)

	missing := int64(999)
	_, err = service.Build(context.Background(), subject.ID, &missing)
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}
