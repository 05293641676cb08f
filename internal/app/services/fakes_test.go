package services

import (
	"context"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// In-memory repository fakes. A *repositories.Repositories built from these has
// no pool, so WithTx runs its callback in place.

type fakeStudentRepo struct {
	students map[int64]*models.Student
	grades   *fakeGradeRepo
	nextID   int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[int64]*models.Student{}}
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.nextID++
	student.ID = r.nextID
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (r *fakeStudentRepo) GetByStudentNumber(_ context.Context, studentNumber string) (*models.Student, error) {
	for _, student := range r.students {
		if student.StudentID == studentNumber {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetAll(_ context.Context, sectionID *int64) ([]*models.Student, error) {
	var out []*models.Student
	for _, student := range r.students {
		if sectionID != nil && (student.SectionID == nil || *student.SectionID != *sectionID) {
			continue
		}
		out = append(out, student)
	}
	return out, nil
}

func (r *fakeStudentRepo) GetBySectionIDs(_ context.Context, sectionIDs []int64) ([]*models.Student, error) {
	wanted := map[int64]bool{}
	for _, id := range sectionIDs {
		wanted[id] = true
	}
	var out []*models.Student
	// Iterate in ID order for deterministic batch outcomes.
	for id := int64(1); id <= r.nextID; id++ {
		student, ok := r.students[id]
		if !ok || student.SectionID == nil || !wanted[*student.SectionID] {
			continue
		}
		out = append(out, student)
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) HasGrades(_ context.Context, studentID int64) (bool, error) {
	if r.grades == nil {
		return false, nil
	}
	for _, grade := range r.grades.grades {
		if grade.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.students)), nil
}

type fakeSectionRepo struct {
	sections map[int64]*models.Section
	nextID   int64
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: map[int64]*models.Section{}}
}

func (r *fakeSectionRepo) Create(_ context.Context, section *models.Section) error {
	r.nextID++
	section.ID = r.nextID
	r.sections[section.ID] = section
	return nil
}

func (r *fakeSectionRepo) GetByID(_ context.Context, id int64) (*models.Section, error) {
	section, ok := r.sections[id]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	return section, nil
}

func (r *fakeSectionRepo) GetAll(_ context.Context) ([]*models.Section, error) {
	var out []*models.Section
	for _, section := range r.sections {
		out = append(out, section)
	}
	return out, nil
}

func (r *fakeSectionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.sections)), nil
}

type fakeSubjectRepo struct {
	subjects      map[int64]*models.Subject
	prerequisites map[int64][]int64
	nextID        int64
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{
		subjects:      map[int64]*models.Subject{},
		prerequisites: map[int64][]int64{},
	}
}

func (r *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	for _, existing := range r.subjects {
		if existing.Code == subject.Code {
			return apperrors.ErrSubjectCodeExists
		}
	}
	r.nextID++
	subject.ID = r.nextID
	r.subjects[subject.ID] = subject
	return nil
}

func (r *fakeSubjectRepo) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	subject, ok := r.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	return subject, nil
}

func (r *fakeSubjectRepo) GetAll(_ context.Context) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, subject := range r.subjects {
		out = append(out, subject)
	}
	return out, nil
}

func (r *fakeSubjectRepo) Update(_ context.Context, subject *models.Subject) error {
	if _, ok := r.subjects[subject.ID]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	r.subjects[subject.ID] = subject
	return nil
}

func (r *fakeSubjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(r.subjects, id)
	delete(r.prerequisites, id)
	return nil
}

func (r *fakeSubjectRepo) GetPrerequisites(_ context.Context, subjectID int64) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, prerequisiteID := range r.prerequisites[subjectID] {
		if prerequisite, ok := r.subjects[prerequisiteID]; ok {
			out = append(out, prerequisite)
		}
	}
	return out, nil
}

func (r *fakeSubjectRepo) AddPrerequisite(_ context.Context, subjectID, prerequisiteID int64) error {
	for _, existing := range r.prerequisites[subjectID] {
		if existing == prerequisiteID {
			return nil
		}
	}
	r.prerequisites[subjectID] = append(r.prerequisites[subjectID], prerequisiteID)
	return nil
}

func (r *fakeSubjectRepo) RemovePrerequisite(_ context.Context, subjectID, prerequisiteID int64) error {
	edges := r.prerequisites[subjectID]
	for i, existing := range edges {
		if existing == prerequisiteID {
			r.prerequisites[subjectID] = append(edges[:i], edges[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPrerequisiteNotFound
}

func (r *fakeSubjectRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.subjects)), nil
}

type fakeWeightRepo struct {
	weights map[int64]*models.GradeWeight
	nextID  int64
}

func newFakeWeightRepo() *fakeWeightRepo {
	return &fakeWeightRepo{weights: map[int64]*models.GradeWeight{}}
}

func (r *fakeWeightRepo) GetBySubjectID(_ context.Context, subjectID int64) (*models.GradeWeight, error) {
	weights, ok := r.weights[subjectID]
	if !ok {
		return nil, nil
	}
	return weights, nil
}

func (r *fakeWeightRepo) Create(_ context.Context, weights *models.GradeWeight) error {
	if _, ok := r.weights[weights.SubjectID]; ok {
		return apperrors.ErrResourceAlreadyExists
	}
	r.nextID++
	weights.ID = r.nextID
	r.weights[weights.SubjectID] = weights
	return nil
}

func (r *fakeWeightRepo) Update(_ context.Context, weights *models.GradeWeight) error {
	existing, ok := r.weights[weights.SubjectID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	weights.ID = existing.ID
	r.weights[weights.SubjectID] = weights
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments []*models.Enrollment
	students    *fakeStudentRepo
	subjects    *fakeSubjectRepo
	nextID      int64
}

func newFakeEnrollmentRepo(students *fakeStudentRepo, subjects *fakeSubjectRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{students: students, subjects: subjects}
}

func (r *fakeEnrollmentRepo) GetByStudentAndSubject(_ context.Context, studentID, subjectID int64) (*models.Enrollment, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectID == subjectID {
			return enrollment, nil
		}
	}
	return nil, nil
}

func (r *fakeEnrollmentRepo) ActiveExists(_ context.Context, studentID, subjectID int64) (bool, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectID == subjectID && enrollment.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.SubjectID == enrollment.SubjectID && existing.IsActive {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	r.nextID++
	enrollment.ID = r.nextID
	r.enrollments = append(r.enrollments, enrollment)
	return nil
}

func (r *fakeEnrollmentRepo) Reactivate(_ context.Context, enrollment *models.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.ID == enrollment.ID {
			existing.IsActive = true
			existing.EnrollmentDate = enrollment.EnrollmentDate
			enrollment.IsActive = true
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) Deactivate(_ context.Context, id int64) (bool, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.ID == id && enrollment.IsActive {
			enrollment.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) List(_ context.Context, filter dto.EnrollmentFilter) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, enrollment := range r.enrollments {
		if filter.StudentID != nil && enrollment.StudentID != *filter.StudentID {
			continue
		}
		if filter.SubjectID != nil && enrollment.SubjectID != *filter.SubjectID {
			continue
		}
		if filter.IsActive != nil && enrollment.IsActive != *filter.IsActive {
			continue
		}
		if r.subjects != nil {
			enrollment.Subject = r.subjects.subjects[enrollment.SubjectID]
		}
		out = append(out, enrollment)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ActiveRoster(_ context.Context, subjectID int64, sectionID *int64) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, enrollment := range r.enrollments {
		if enrollment.SubjectID != subjectID || !enrollment.IsActive {
			continue
		}
		student := r.students.students[enrollment.StudentID]
		if sectionID != nil && (student.SectionID == nil || *student.SectionID != *sectionID) {
			continue
		}
		enrollment.Student = student
		out = append(out, enrollment)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ActiveByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	active := true
	return r.List(ctx, dto.EnrollmentFilter{StudentID: &studentID, IsActive: &active})
}

func (r *fakeEnrollmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.enrollments)), nil
}

type fakeAssessmentRepo struct {
	assessments map[int64]*models.Assessment
	nextID      int64
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: map[int64]*models.Assessment{}}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, assessment *models.Assessment) error {
	r.nextID++
	assessment.ID = r.nextID
	r.assessments[assessment.ID] = assessment
	return nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id int64) (*models.Assessment, error) {
	assessment, ok := r.assessments[id]
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}
	return assessment, nil
}

func (r *fakeAssessmentRepo) GetBySubject(_ context.Context, subjectID int64, assessmentType *models.AssessmentType) ([]*models.Assessment, error) {
	var out []*models.Assessment
	for id := int64(1); id <= r.nextID; id++ {
		assessment, ok := r.assessments[id]
		if !ok || assessment.SubjectID != subjectID {
			continue
		}
		if assessmentType != nil && assessment.Type != *assessmentType {
			continue
		}
		out = append(out, assessment)
	}
	return out, nil
}

func (r *fakeAssessmentRepo) Update(_ context.Context, assessment *models.Assessment) error {
	if _, ok := r.assessments[assessment.ID]; !ok {
		return apperrors.ErrAssessmentNotFound
	}
	r.assessments[assessment.ID] = assessment
	return nil
}

func (r *fakeAssessmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.assessments[id]; !ok {
		return apperrors.ErrAssessmentNotFound
	}
	delete(r.assessments, id)
	return nil
}

type gradeKey struct {
	studentID    int64
	assessmentID int64
}

type fakeGradeRepo struct {
	grades      map[gradeKey]*models.Grade
	assessments *fakeAssessmentRepo
	nextID      int64
}

func newFakeGradeRepo(assessments *fakeAssessmentRepo) *fakeGradeRepo {
	return &fakeGradeRepo{grades: map[gradeKey]*models.Grade{}, assessments: assessments}
}

func (r *fakeGradeRepo) Upsert(_ context.Context, grade *models.Grade) error {
	key := gradeKey{grade.StudentID, grade.AssessmentID}
	if existing, ok := r.grades[key]; ok {
		existing.Score = grade.Score
		existing.Remarks = grade.Remarks
		grade.ID = existing.ID
		return nil
	}
	r.nextID++
	grade.ID = r.nextID
	r.grades[key] = grade
	return nil
}

func (r *fakeGradeRepo) GetByStudentAndSubject(_ context.Context, studentID, subjectID int64) ([]*models.Grade, error) {
	var out []*models.Grade
	for key, grade := range r.grades {
		if key.studentID != studentID {
			continue
		}
		assessment := r.assessments.assessments[key.assessmentID]
		if assessment == nil || assessment.SubjectID != subjectID {
			continue
		}
		grade.Assessment = assessment
		out = append(out, grade)
	}
	return out, nil
}

func (r *fakeGradeRepo) List(_ context.Context, studentID, subjectID *int64) ([]*models.Grade, error) {
	var out []*models.Grade
	for key, grade := range r.grades {
		if studentID != nil && key.studentID != *studentID {
			continue
		}
		assessment := r.assessments.assessments[key.assessmentID]
		if subjectID != nil && (assessment == nil || assessment.SubjectID != *subjectID) {
			continue
		}
		grade.Assessment = assessment
		out = append(out, grade)
	}
	return out, nil
}

// newTestRepositories builds a Repositories backed entirely by fakes
func newTestRepositories() *repositories.Repositories {
	students := newFakeStudentRepo()
	subjects := newFakeSubjectRepo()
	assessments := newFakeAssessmentRepo()
	grades := newFakeGradeRepo(assessments)
	students.grades = grades

	return &repositories.Repositories{
		Students:    students,
		Sections:    newFakeSectionRepo(),
		Subjects:    subjects,
		Weights:     newFakeWeightRepo(),
		Enrollments: newFakeEnrollmentRepo(students, subjects),
		Assessments: assessments,
		Grades:      grades,
	}
}
