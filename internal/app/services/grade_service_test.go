package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

func newGradeService(repos *repositories.Repositories) GradeService {
	return NewGradeService(repos, NewWeightService(repos.Weights, repos.Subjects))
}

func seedAssessment(t *testing.T, repos *repositories.Repositories, subjectID int64, name string, assessmentType models.AssessmentType, maxScore float64) *models.Assessment {
	t.Helper()
	assessment := &models.Assessment{
		SubjectID: subjectID,
		Name:      name,
		Type:      assessmentType,
		MaxScore:  maxScore,
	}
	require.NoError(t, repos.Assessments.Create(context.Background(), assessment))
	return assessment
}

func TestRecordGradeBoundaries(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)
	assessment := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 10)

	_, err := service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: 0,
	})
	assert.NoError(t, err)

	_, err = service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: 10,
	})
	assert.NoError(t, err)

	_, err = service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: 10.01,
	})
	assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange)

	_, err = service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: -1,
	})
	assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange)
}

func TestRecordGradeUpsertsExistingRow(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)
	assessment := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 10)

	first, err := service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: 6,
	})
	require.NoError(t, err)

	second, err := service.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: assessment.ID, Score: 9, Remarks: "regraded",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	grades, err := service.ListGrades(context.Background(), &student.ID, &subject.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 9.0, grades[0].Score)
}

func TestBulkUpsertGradesSkipsIncompleteItems(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)
	assessment := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 10)
	exam := seedAssessment(t, repos, subject.ID, "Midterm", models.AssessmentExam, 100)

	score1, score2 := 8.0, 75.0
	resp, err := service.BulkUpsertGrades(context.Background(), dto.BulkUpsertGradesRequest{
		Grades: []dto.BulkGradeItem{
			{StudentID: &student.ID, AssessmentID: &assessment.ID, Score: &score1},
			{StudentID: &student.ID, AssessmentID: &exam.ID, Score: &score2},
			{StudentID: &student.ID, AssessmentID: &exam.ID}, // no score
			{AssessmentID: &exam.ID, Score: &score2},         // no student
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, 2, resp.Skipped)

	grades, err := service.ListGrades(context.Background(), &student.ID, &subject.ID)
	require.NoError(t, err)
	assert.Len(t, grades, 2)
}

func TestFinalGradeNoGrades(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)

	result, err := service.FinalGrade(context.Background(), student.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value)
	assert.Equal(t, StatusNotAvailable, result.Status)
}

func TestFinalGradeWeighted(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)

	activity := seedAssessment(t, repos, subject.ID, "Activity 1", models.AssessmentActivity, 100)
	quiz := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 100)
	examAssessment := seedAssessment(t, repos, subject.ID, "Final Exam", models.AssessmentExam, 100)

	for assessmentID, score := range map[int64]float64{
		activity.ID:       80,
		quiz.ID:           90,
		examAssessment.ID: 100,
	} {
		_, err := service.RecordGrade(context.Background(), dto.RecordGradeRequest{
			StudentID: student.ID, AssessmentID: assessmentID, Score: score,
		})
		require.NoError(t, err)
	}

	// Default 30/30/40 weights: 80*0.3 + 90*0.3 + 100*0.4 = 91.
	result, err := service.FinalGrade(context.Background(), student.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, 91.0, result.Value)
	assert.Equal(t, StatusExcellent, result.Status)
}

func TestStudentGradeReport(t *testing.T) {
	repos := newTestRepositories()
	gradeService := newGradeService(repos)
	enrollmentService := NewEnrollmentService(repos)

	subject := seedSubject(t, repos, "CS101")
	student := seedStudent(t, repos, "2024-0001", nil)
	quiz := seedAssessment(t, repos, subject.ID, "Quiz 1", models.AssessmentQuiz, 10)

	_, err := enrollmentService.Enroll(context.Background(), dto.EnrollRequest{
		StudentID: "2024-0001", SubjectID: subject.ID,
	})
	require.NoError(t, err)

	_, err = gradeService.RecordGrade(context.Background(), dto.RecordGradeRequest{
		StudentID: student.ID, AssessmentID: quiz.ID, Score: 8,
	})
	require.NoError(t, err)

	report, err := gradeService.StudentGradeReport(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "CS101", report[0].SubjectCode)
	assert.Equal(t, 80.0, report[0].FinalGrade)
	assert.Equal(t, StatusGood, report[0].Status)
}

func TestCreateAssessmentValidatesSubjectAndDate(t *testing.T) {
	repos := newTestRepositories()
	service := newGradeService(repos)
	subject := seedSubject(t, repos, "CS101")

	_, err := service.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		SubjectID: 999, Name: "Quiz 1", Type: "quiz", MaxScore: 10,
	})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)

	badDate := "01-02-2026"
	_, err = service.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		SubjectID: subject.ID, Name: "Quiz 1", Type: "quiz", MaxScore: 10, Date: &badDate,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	date := "2026-02-01"
	assessment, err := service.CreateAssessment(context.Background(), dto.CreateAssessmentRequest{
		SubjectID: subject.ID, Name: "Quiz 1", Type: "quiz", MaxScore: 10, Date: &date,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentQuiz, assessment.Type)
	require.NotNil(t, assessment.Date)
}
