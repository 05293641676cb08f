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

func seedSubject(t *testing.T, repos *repositories.Repositories, code string) *models.Subject {
	t.Helper()
	subject := &models.Subject{Code: code, Name: code + " name", Units: 3, YearLevel: 1}
	require.NoError(t, repos.Subjects.Create(context.Background(), subject))
	return subject
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name     string
		activity float64
		quiz     float64
		exam     float64
		wantErr  bool
	}{
		{"default split", 30, 30, 40, false},
		{"exact hundred", 20, 30, 50, false},
		{"within tolerance", 33.33, 33.33, 33.34, false},
		{"just inside tolerance", 30, 30, 40.005, false},
		{"sum too low", 33, 33, 33, true},
		{"sum too high", 40, 40, 40, true},
		{"negative weight", -10, 50, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.activity, tt.quiz, tt.exam)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidWeights)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveCreatesDefaultWeights(t *testing.T) {
	repos := newTestRepositories()
	service := NewWeightService(repos.Weights, repos.Subjects)
	subject := seedSubject(t, repos, "CS101")

	weights, err := service.Resolve(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultActivityWeight, weights.ActivityWeight)
	assert.Equal(t, models.DefaultQuizWeight, weights.QuizWeight)
	assert.Equal(t, models.DefaultExamWeight, weights.ExamWeight)

	// Resolving again returns the same row instead of creating another.
	again, err := service.Resolve(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.Equal(t, weights.ID, again.ID)
}

func TestResolveUnknownSubject(t *testing.T) {
	repos := newTestRepositories()
	service := NewWeightService(repos.Weights, repos.Subjects)

	_, err := service.Resolve(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestUpdateWeights(t *testing.T) {
	repos := newTestRepositories()
	service := NewWeightService(repos.Weights, repos.Subjects)
	subject := seedSubject(t, repos, "CS101")

	// Creates the row when the subject has none yet.
	weights, err := service.Update(context.Background(), subject.ID, dto.UpdateWeightsRequest{
		ActivityWeight: 20, QuizWeight: 30, ExamWeight: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, weights.ExamWeight)

	weights, err = service.Update(context.Background(), subject.ID, dto.UpdateWeightsRequest{
		ActivityWeight: 25, QuizWeight: 25, ExamWeight: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, weights.ActivityWeight)

	_, err = service.Update(context.Background(), subject.ID, dto.UpdateWeightsRequest{
		ActivityWeight: 10, QuizWeight: 10, ExamWeight: 10,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidWeights)

	// A rejected update leaves the stored weights untouched.
	stored, err := service.Resolve(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.ActivityWeight)
	assert.Equal(t, 50.0, stored.ExamWeight)
}
