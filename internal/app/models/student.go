package models

import "time"

// Section is a cohort grouping for students and gradebook queries
type Section struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	YearLevel int       `json:"year_level"`
	CreatedAt time.Time `json:"created_at"`
}

// Student represents a registered student
type Student struct {
	ID             int64      `json:"id"`
	StudentID      string     `json:"student_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Address        string     `json:"address,omitempty"`
	SectionID      *int64     `json:"section_id,omitempty"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Section        *Section   `json:"section,omitempty"`
}

// FullName returns the student's display name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
