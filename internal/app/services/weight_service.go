package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// WeightService defines the interface for grade weight operations
type WeightService interface {
	// Resolve returns the subject's weights, creating the default 30/30/40 row
	// when none exists yet. A subject is never left without weights.
	Resolve(ctx context.Context, subjectID int64) (*models.GradeWeight, error)
	Update(ctx context.Context, subjectID int64, req dto.UpdateWeightsRequest) (*models.GradeWeight, error)
}

// weightServiceImpl implements the WeightService interface
type weightServiceImpl struct {
	weightRepo  repositories.WeightRepository
	subjectRepo repositories.SubjectRepository
}

// NewWeightService creates a new weight service instance
func NewWeightService(weightRepo repositories.WeightRepository, subjectRepo repositories.SubjectRepository) WeightService {
	return &weightServiceImpl{
		weightRepo:  weightRepo,
		subjectRepo: subjectRepo,
	}
}

// ValidateWeights checks the category percentages sum to 100 within tolerance.
// This runs on every create and update of a weights row, not only at resolve time.
func ValidateWeights(activity, quiz, exam float64) error {
	if activity < 0 || quiz < 0 || exam < 0 {
		return apperrors.NewCustomError(apperrors.ErrInvalidWeights, "weights must be non-negative")
	}

	total := activity + quiz + exam
	if math.Abs(total-100) > models.WeightSumTolerance {
		return apperrors.NewCustomError(apperrors.ErrInvalidWeights,
			fmt.Sprintf("weights must sum to 100%%, current total: %g%%", total))
	}

	return nil
}

// Resolve returns the subject's weights, creating the default row once
func (s *weightServiceImpl) Resolve(ctx context.Context, subjectID int64) (*models.GradeWeight, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	weights, err := s.weightRepo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if weights != nil {
		return weights, nil
	}

	weights = &models.GradeWeight{
		SubjectID:      subjectID,
		ActivityWeight: models.DefaultActivityWeight,
		QuizWeight:     models.DefaultQuizWeight,
		ExamWeight:     models.DefaultExamWeight,
	}

	if err := s.weightRepo.Create(ctx, weights); err != nil {
		// A concurrent Resolve won the insert; return its row.
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return s.weightRepo.GetBySubjectID(ctx, subjectID)
		}
		return nil, err
	}

	return weights, nil
}

// Update validates and writes a subject's weights, creating the row when absent
func (s *weightServiceImpl) Update(ctx context.Context, subjectID int64, req dto.UpdateWeightsRequest) (*models.GradeWeight, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	if err := ValidateWeights(req.ActivityWeight, req.QuizWeight, req.ExamWeight); err != nil {
		return nil, err
	}

	weights := &models.GradeWeight{
		SubjectID:      subjectID,
		ActivityWeight: req.ActivityWeight,
		QuizWeight:     req.QuizWeight,
		ExamWeight:     req.ExamWeight,
	}

	existing, err := s.weightRepo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := s.weightRepo.Create(ctx, weights); err != nil {
			return nil, err
		}
		return weights, nil
	}

	if err := s.weightRepo.Update(ctx, weights); err != nil {
		return nil, err
	}

	return weights, nil
}
