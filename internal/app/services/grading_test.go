package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classtrack/classtrack/internal/app/models"
)

func gradeFor(assessmentType models.AssessmentType, score, maxScore float64) *models.Grade {
	return &models.Grade{
		Score:      score,
		Assessment: &models.Assessment{Type: assessmentType, MaxScore: maxScore},
	}
}

func TestCategoryAverage(t *testing.T) {
	avg, ok := categoryAverage([]*models.Grade{
		gradeFor(models.AssessmentQuiz, 8, 10),
		gradeFor(models.AssessmentQuiz, 9, 10),
	})
	assert.True(t, ok)
	assert.InDelta(t, 85, avg, 0.001)

	// Assessments with a non-positive max cannot be normalized and are skipped.
	avg, ok = categoryAverage([]*models.Grade{
		gradeFor(models.AssessmentQuiz, 8, 10),
		gradeFor(models.AssessmentQuiz, 5, 0),
	})
	assert.True(t, ok)
	assert.InDelta(t, 80, avg, 0.001)

	_, ok = categoryAverage(nil)
	assert.False(t, ok)
}

func TestComputeFinalGradeAllCategories(t *testing.T) {
	weights := &models.GradeWeight{ActivityWeight: 30, QuizWeight: 30, ExamWeight: 40}
	grades := []*models.Grade{
		gradeFor(models.AssessmentActivity, 80, 100),
		gradeFor(models.AssessmentQuiz, 90, 100),
		gradeFor(models.AssessmentExam, 100, 100),
	}

	value, ok := computeFinalGrade(grades, weights)
	assert.True(t, ok)
	assert.Equal(t, 91.0, value)
}

func TestComputeFinalGradeRenormalizesMissingCategory(t *testing.T) {
	weights := &models.GradeWeight{ActivityWeight: 30, QuizWeight: 30, ExamWeight: 40}
	grades := []*models.Grade{
		gradeFor(models.AssessmentActivity, 85, 100),
		gradeFor(models.AssessmentExam, 85, 100),
	}

	// No quiz grades yet: the quiz weight drops out and activity/exam are
	// reweighted over 70, so an 85 in both stays an 85.
	value, ok := computeFinalGrade(grades, weights)
	assert.True(t, ok)
	assert.Equal(t, 85.0, value)
}

func TestComputeFinalGradeZeroWeightCategoryExcluded(t *testing.T) {
	weights := &models.GradeWeight{ActivityWeight: 0, QuizWeight: 50, ExamWeight: 50}
	grades := []*models.Grade{
		gradeFor(models.AssessmentActivity, 10, 100),
		gradeFor(models.AssessmentQuiz, 90, 100),
		gradeFor(models.AssessmentExam, 70, 100),
	}

	value, ok := computeFinalGrade(grades, weights)
	assert.True(t, ok)
	assert.Equal(t, 80.0, value)
}

func TestComputeFinalGradeDegenerate(t *testing.T) {
	weights := &models.GradeWeight{ActivityWeight: 30, QuizWeight: 30, ExamWeight: 40}

	_, ok := computeFinalGrade(nil, weights)
	assert.False(t, ok)

	_, ok = computeFinalGrade([]*models.Grade{gradeFor(models.AssessmentQuiz, 8, 10)}, nil)
	assert.False(t, ok)

	// Every category weighted zero leaves nothing to combine.
	_, ok = computeFinalGrade(
		[]*models.Grade{gradeFor(models.AssessmentQuiz, 8, 10)},
		&models.GradeWeight{},
	)
	assert.False(t, ok)
}

func TestComputeFinalGradeRoundsToTwoDecimals(t *testing.T) {
	weights := &models.GradeWeight{ActivityWeight: 30, QuizWeight: 30, ExamWeight: 40}
	grades := []*models.Grade{
		gradeFor(models.AssessmentQuiz, 1, 3),
	}

	value, ok := computeFinalGrade(grades, weights)
	assert.True(t, ok)
	assert.Equal(t, 33.33, value)
}

func TestGradeStatus(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{100, StatusExcellent},
		{90, StatusExcellent},
		{89.99, StatusGood},
		{80, StatusGood},
		{79.99, StatusPassing},
		{75, StatusPassing},
		{74.99, StatusNeedsImprovement},
		{0, StatusNeedsImprovement},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeStatus(tt.value), "value %v", tt.value)
	}
}
