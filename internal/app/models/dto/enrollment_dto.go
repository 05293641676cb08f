package dto

import "time"

// EnrollRequest enrolls one student into one subject
type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required"` // registrar-issued student number
	SubjectID int64  `json:"subject_id" binding:"required,gt=0"`
}

// EnrollResponse describes the resulting enrollment
type EnrollResponse struct {
	EnrollmentID   int64     `json:"enrollment_id"`
	StudentID      int64     `json:"student_id"`
	StudentName    string    `json:"student_name"`
	SubjectID      int64     `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	IsActive       bool      `json:"is_active"`
	Reactivated    bool      `json:"reactivated"`
}

// BulkEnrollRequest enrolls every student of the given sections into a subject
type BulkEnrollRequest struct {
	SectionIDs []int64 `json:"section_ids" binding:"required,min=1"`
}

// BulkEnrollOutcome is the per-student result of a bulk enrollment
type BulkEnrollOutcome struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
}

// BulkEnrollResult collects per-student outcomes; a logical per-student failure
// never aborts the batch
type BulkEnrollResult struct {
	Successful []BulkEnrollOutcome `json:"successful"`
	Failed     []BulkEnrollOutcome `json:"failed"`
}

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	StudentID *int64
	SubjectID *int64
	IsActive  *bool
}

// EnrolledStudentResponse is one row of a subject's active roster
type EnrolledStudentResponse struct {
	ID             int64     `json:"id"`
	StudentID      string    `json:"student_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}
