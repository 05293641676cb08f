package models

import "time"

// Enrollment links one student to one subject.
// At most one active enrollment may exist per (student, subject) pair;
// inactive rows are kept as history and reactivated instead of duplicated.
type Enrollment struct {
	ID             int64     `json:"id"`
	StudentID      int64     `json:"student_id"`
	SubjectID      int64     `json:"subject_id"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	IsActive       bool      `json:"is_active"`
	Student        *Student  `json:"student,omitempty"`
	Subject        *Subject  `json:"subject,omitempty"`
}
