package services

import (
	"context"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
)

// DashboardService defines the interface for headline statistics
type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

// dashboardServiceImpl implements the DashboardService interface
type dashboardServiceImpl struct {
	repos *repositories.Repositories
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(repos *repositories.Repositories) DashboardService {
	return &dashboardServiceImpl{repos: repos}
}

// Stats returns entity counts for the dashboard
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	students, err := s.repos.Students.Count(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repos.Subjects.Count(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := s.repos.Sections.Count(ctx)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.repos.Enrollments.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalStudents:    students,
		TotalSubjects:    subjects,
		TotalSections:    sections,
		TotalEnrollments: enrollments,
	}, nil
}
