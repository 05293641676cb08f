package services

import (
	"context"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
)

// GradebookService defines the interface for building score matrices
type GradebookService interface {
	// Build produces one row per actively enrolled student of the subject,
	// optionally narrowed to one section, with a column for every assessment.
	Build(ctx context.Context, subjectID int64, sectionID *int64) ([]dto.GradebookRow, error)
}

// gradebookServiceImpl implements the GradebookService interface
type gradebookServiceImpl struct {
	repos *repositories.Repositories
}

// NewGradebookService creates a new gradebook service instance
func NewGradebookService(repos *repositories.Repositories) GradebookService {
	return &gradebookServiceImpl{repos: repos}
}

// Build assembles the gradebook matrix for a subject
func (s *gradebookServiceImpl) Build(ctx context.Context, subjectID int64, sectionID *int64) ([]dto.GradebookRow, error) {
	if _, err := s.repos.Subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	if sectionID != nil {
		if _, err := s.repos.Sections.GetByID(ctx, *sectionID); err != nil {
			return nil, err
		}
	}

	assessments, err := s.repos.Assessments.GetBySubject(ctx, subjectID, nil)
	if err != nil {
		return nil, err
	}

	roster, err := s.repos.Enrollments.ActiveRoster(ctx, subjectID, sectionID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.GradebookRow, 0, len(roster))
	for _, enrollment := range roster {
		grades, err := s.repos.Grades.GetByStudentAndSubject(ctx, enrollment.Student.ID, subjectID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, buildGradebookRow(enrollment.Student, assessments, grades))
	}

	return rows, nil
}

// buildGradebookRow zero-fills missing grades for display; the zeros are a
// presentation choice and never feed the final-grade formula. The average is
// the total earned over the total possible, as a percentage rounded to 2
// decimals, or 0 when the subject has no possible points.
func buildGradebookRow(student *models.Student, assessments []*models.Assessment, grades []*models.Grade) dto.GradebookRow {
	scoreByAssessment := make(map[int64]float64, len(grades))
	for _, grade := range grades {
		scoreByAssessment[grade.AssessmentID] = grade.Score
	}

	row := dto.GradebookRow{
		StudentID:   student.ID,
		StudentName: student.FullName(),
		Grades:      make(map[string]float64, len(assessments)),
	}

	var maxTotal float64
	for _, assessment := range assessments {
		score := scoreByAssessment[assessment.ID]
		row.Grades[assessment.Name] = score
		row.TotalScore += score
		maxTotal += assessment.MaxScore
	}

	if maxTotal > 0 {
		row.AveragePercent = round2(row.TotalScore / maxTotal * 100)
	}

	return row
}
