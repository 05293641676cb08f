package services

import (
	"context"
	"strings"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// SubjectService defines the interface for subject catalog operations
type SubjectService interface {
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error

	// AddPrerequisite attaches a prerequisite edge; self-loops and edges that
	// would close a cycle in the prerequisite graph are rejected.
	AddPrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error
	RemovePrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error
	ListPrerequisites(ctx context.Context, subjectID int64) ([]*models.Subject, error)
}

// subjectServiceImpl implements the SubjectService interface
type subjectServiceImpl struct {
	subjectRepo repositories.SubjectRepository
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(subjectRepo repositories.SubjectRepository) SubjectService {
	return &subjectServiceImpl{subjectRepo: subjectRepo}
}

// CreateSubject creates a subject, attaching any requested prerequisites
func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        req.Name,
		Description: req.Description,
		Units:       req.Units,
		YearLevel:   req.YearLevel,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}

	for _, prerequisiteID := range req.PrerequisiteIDs {
		if err := s.AddPrerequisite(ctx, subject.ID, prerequisiteID); err != nil {
			return nil, err
		}
	}

	logger.Info().Int64("id", subject.ID).Str("code", subject.Code).Msg("Subject created")
	return subject, nil
}

// GetSubject retrieves a subject with its prerequisites loaded
func (s *subjectServiceImpl) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prerequisites, err := s.subjectRepo.GetPrerequisites(ctx, id)
	if err != nil {
		return nil, err
	}
	subject.Prerequisites = prerequisites

	return subject, nil
}

// ListSubjects retrieves all subjects
func (s *subjectServiceImpl) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// UpdateSubject updates a subject's catalog fields
func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subject.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	subject.Name = req.Name
	subject.Description = req.Description
	subject.Units = req.Units
	subject.YearLevel = req.YearLevel

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// DeleteSubject removes a subject along with its dependent rows
func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info().Int64("id", id).Msg("Subject deleted")
	return nil
}

// AddPrerequisite attaches a prerequisite edge after checking the graph stays acyclic
func (s *subjectServiceImpl) AddPrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error {
	if subjectID == prerequisiteID {
		return apperrors.ErrSelfPrerequisite
	}

	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return err
	}
	if _, err := s.subjectRepo.GetByID(ctx, prerequisiteID); err != nil {
		return apperrors.ErrPrerequisiteNotFound
	}

	cycle, err := s.wouldCreateCycle(ctx, subjectID, prerequisiteID)
	if err != nil {
		return err
	}
	if cycle {
		return apperrors.ErrPrerequisiteCycle
	}

	return s.subjectRepo.AddPrerequisite(ctx, subjectID, prerequisiteID)
}

// wouldCreateCycle walks the prerequisite graph from the candidate prerequisite
// and reports whether the subject itself is reachable, which would make the
// new edge close a cycle
func (s *subjectServiceImpl) wouldCreateCycle(ctx context.Context, subjectID, prerequisiteID int64) (bool, error) {
	visited := map[int64]bool{}
	stack := []int64{prerequisiteID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		prerequisites, err := s.subjectRepo.GetPrerequisites(ctx, current)
		if err != nil {
			return false, err
		}
		for _, prerequisite := range prerequisites {
			if prerequisite.ID == subjectID {
				return true, nil
			}
			stack = append(stack, prerequisite.ID)
		}
	}

	return false, nil
}

// RemovePrerequisite detaches a prerequisite edge
func (s *subjectServiceImpl) RemovePrerequisite(ctx context.Context, subjectID, prerequisiteID int64) error {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return err
	}
	return s.subjectRepo.RemovePrerequisite(ctx, subjectID, prerequisiteID)
}

// ListPrerequisites returns a subject's direct prerequisites
func (s *subjectServiceImpl) ListPrerequisites(ctx context.Context, subjectID int64) ([]*models.Subject, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.subjectRepo.GetPrerequisites(ctx, subjectID)
}
