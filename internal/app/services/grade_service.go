package services

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// GradeService defines the interface for assessment and grading operations
type GradeService interface {
	CreateAssessment(ctx context.Context, req dto.CreateAssessmentRequest) (*models.Assessment, error)
	GetAssessment(ctx context.Context, id int64) (*models.Assessment, error)
	ListAssessments(ctx context.Context, subjectID int64, assessmentType *models.AssessmentType) ([]*models.Assessment, error)
	UpdateAssessment(ctx context.Context, id int64, req dto.UpdateAssessmentRequest) (*models.Assessment, error)
	DeleteAssessment(ctx context.Context, id int64) error

	RecordGrade(ctx context.Context, req dto.RecordGradeRequest) (*models.Grade, error)
	BulkUpsertGrades(ctx context.Context, req dto.BulkUpsertGradesRequest) (*dto.BulkUpsertGradesResponse, error)
	ListGrades(ctx context.Context, studentID, subjectID *int64) ([]*models.Grade, error)

	FinalGrade(ctx context.Context, studentID, subjectID int64) (*dto.FinalGradeResult, error)
	StudentGradeReport(ctx context.Context, studentID int64) ([]dto.SubjectGradeReport, error)
}

// gradeServiceImpl implements the GradeService interface
type gradeServiceImpl struct {
	repos         *repositories.Repositories
	weightService WeightService
}

// NewGradeService creates a new grade service instance
func NewGradeService(repos *repositories.Repositories, weightService WeightService) GradeService {
	return &gradeServiceImpl{
		repos:         repos,
		weightService: weightService,
	}
}

// CreateAssessment creates an assessment under a subject
func (s *gradeServiceImpl) CreateAssessment(ctx context.Context, req dto.CreateAssessmentRequest) (*models.Assessment, error) {
	if _, err := s.repos.Subjects.GetByID(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	date, err := parseAssessmentDate(req.Date)
	if err != nil {
		return nil, err
	}

	assessment := &models.Assessment{
		SubjectID: req.SubjectID,
		Name:      req.Name,
		Type:      models.AssessmentType(req.Type),
		MaxScore:  req.MaxScore,
		Date:      date,
	}

	if err := s.repos.Assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}

	return assessment, nil
}

// GetAssessment retrieves an assessment by ID
func (s *gradeServiceImpl) GetAssessment(ctx context.Context, id int64) (*models.Assessment, error) {
	return s.repos.Assessments.GetByID(ctx, id)
}

// ListAssessments returns a subject's assessments, optionally narrowed to one type
func (s *gradeServiceImpl) ListAssessments(ctx context.Context, subjectID int64, assessmentType *models.AssessmentType) ([]*models.Assessment, error) {
	if _, err := s.repos.Subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.repos.Assessments.GetBySubject(ctx, subjectID, assessmentType)
}

// UpdateAssessment updates an assessment's name, type, max score and date
func (s *gradeServiceImpl) UpdateAssessment(ctx context.Context, id int64, req dto.UpdateAssessmentRequest) (*models.Assessment, error) {
	assessment, err := s.repos.Assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date, err := parseAssessmentDate(req.Date)
	if err != nil {
		return nil, err
	}

	assessment.Name = req.Name
	assessment.Type = models.AssessmentType(req.Type)
	assessment.MaxScore = req.MaxScore
	assessment.Date = date

	if err := s.repos.Assessments.Update(ctx, assessment); err != nil {
		return nil, err
	}

	return assessment, nil
}

// DeleteAssessment removes an assessment along with its grades
func (s *gradeServiceImpl) DeleteAssessment(ctx context.Context, id int64) error {
	return s.repos.Assessments.Delete(ctx, id)
}

func parseAssessmentDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	date, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	return &date, nil
}

// RecordGrade upserts one student's score for one assessment. The score must
// lie within [0, max_score] of the assessment.
func (s *gradeServiceImpl) RecordGrade(ctx context.Context, req dto.RecordGradeRequest) (*models.Grade, error) {
	assessment, err := s.repos.Assessments.GetByID(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repos.Students.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	if req.Score < 0 || req.Score > assessment.MaxScore {
		return nil, apperrors.NewCustomError(apperrors.ErrScoreOutOfRange,
			fmt.Sprintf("score %g is outside the valid range 0-%g", req.Score, assessment.MaxScore))
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		AssessmentID: req.AssessmentID,
		Score:        req.Score,
		Remarks:      req.Remarks,
	}

	if err := s.repos.Grades.Upsert(ctx, grade); err != nil {
		return nil, err
	}
	grade.Assessment = assessment

	logger.Debug().
		Int64("student_id", req.StudentID).
		Int64("assessment_id", req.AssessmentID).
		Float64("score", req.Score).
		Msg("Grade recorded")

	return grade, nil
}

// BulkUpsertGrades writes a batch of grades in one transaction. Items missing
// any field are skipped and counted; a storage fault rolls back the whole batch.
func (s *gradeServiceImpl) BulkUpsertGrades(ctx context.Context, req dto.BulkUpsertGradesRequest) (*dto.BulkUpsertGradesResponse, error) {
	response := &dto.BulkUpsertGradesResponse{}

	err := s.repos.WithTx(ctx, func(txRepos *repositories.Repositories) error {
		for _, item := range req.Grades {
			if item.StudentID == nil || item.AssessmentID == nil || item.Score == nil {
				response.Skipped++
				continue
			}

			grade := &models.Grade{
				StudentID:    *item.StudentID,
				AssessmentID: *item.AssessmentID,
				Score:        *item.Score,
			}
			if err := txRepos.Grades.Upsert(ctx, grade); err != nil {
				return err
			}
			response.Updated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("updated", response.Updated).
		Int("skipped", response.Skipped).
		Msg("Bulk grade upsert completed")

	return response, nil
}

// ListGrades retrieves grades optionally filtered by student and/or subject
func (s *gradeServiceImpl) ListGrades(ctx context.Context, studentID, subjectID *int64) ([]*models.Grade, error) {
	return s.repos.Grades.List(ctx, studentID, subjectID)
}

// FinalGrade computes the student's weighted final grade for a subject.
// A student with no graded assessments gets value 0 and status "N/A".
func (s *gradeServiceImpl) FinalGrade(ctx context.Context, studentID, subjectID int64) (*dto.FinalGradeResult, error) {
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	weights, err := s.weightService.Resolve(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	grades, err := s.repos.Grades.GetByStudentAndSubject(ctx, studentID, subjectID)
	if err != nil {
		return nil, err
	}

	value, ok := computeFinalGrade(grades, weights)
	if !ok {
		return &dto.FinalGradeResult{Value: 0, Status: StatusNotAvailable}, nil
	}

	return &dto.FinalGradeResult{Value: value, Status: GradeStatus(value)}, nil
}

// StudentGradeReport computes the student's final grade in every subject they
// are actively enrolled in
func (s *gradeServiceImpl) StudentGradeReport(ctx context.Context, studentID int64) ([]dto.SubjectGradeReport, error) {
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	enrollments, err := s.repos.Enrollments.ActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	report := make([]dto.SubjectGradeReport, 0, len(enrollments))
	for _, enrollment := range enrollments {
		result, err := s.FinalGrade(ctx, studentID, enrollment.SubjectID)
		if err != nil {
			return nil, err
		}
		report = append(report, dto.SubjectGradeReport{
			SubjectCode: enrollment.Subject.Code,
			SubjectName: enrollment.Subject.Name,
			FinalGrade:  result.Value,
			Status:      result.Status,
		})
	}

	return report, nil
}
