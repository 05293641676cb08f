package services

import (
	"context"
	"time"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// StudentService defines the interface for registrar operations
type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, sectionID *int64) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	// DeleteStudent removes a student without grade history; a student with
	// grades is retired (deactivated) instead so the history stays intact.
	DeleteStudent(ctx context.Context, id int64) error

	CreateSection(ctx context.Context, req dto.CreateSectionRequest) (*models.Section, error)
	ListSections(ctx context.Context) ([]*models.Section, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	sectionRepo repositories.SectionRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.StudentRepository, sectionRepo repositories.SectionRepository) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		sectionRepo: sectionRepo,
	}
}

// CreateStudent registers a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewValidationError("date_of_birth must be in YYYY-MM-DD format")
	}

	if req.SectionID != nil {
		if _, err := s.sectionRepo.GetByID(ctx, *req.SectionID); err != nil {
			return nil, err
		}
	}

	student := &models.Student{
		StudentID:   req.StudentID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: dateOfBirth,
		Address:     req.Address,
		SectionID:   req.SectionID,
		IsActive:    true,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Int64("id", student.ID).Str("student_id", student.StudentID).Msg("Student registered")
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// ListStudents retrieves students, optionally narrowed to one section
func (s *studentServiceImpl) ListStudents(ctx context.Context, sectionID *int64) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx, sectionID)
}

// UpdateStudent applies the non-nil fields of the request
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.SectionID != nil {
		if _, err := s.sectionRepo.GetByID(ctx, *req.SectionID); err != nil {
			return nil, err
		}
		student.SectionID = req.SectionID
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes or retires a student depending on grade history
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hasGrades, err := s.studentRepo.HasGrades(ctx, id)
	if err != nil {
		return err
	}

	if hasGrades {
		student.IsActive = false
		if err := s.studentRepo.Update(ctx, student); err != nil {
			return err
		}
		logger.Info().Int64("id", id).Msg("Student retired, grade history preserved")
		return nil
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("id", id).Msg("Student deleted")
	return nil
}

// CreateSection creates a new section
func (s *studentServiceImpl) CreateSection(ctx context.Context, req dto.CreateSectionRequest) (*models.Section, error) {
	section := &models.Section{
		Name:      req.Name,
		YearLevel: req.YearLevel,
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}

	return section, nil
}

// ListSections retrieves all sections
func (s *studentServiceImpl) ListSections(ctx context.Context) ([]*models.Section, error) {
	return s.sectionRepo.GetAll(ctx)
}
