package dto

// DashboardStats holds headline counts for the dashboard
type DashboardStats struct {
	TotalStudents    int64 `json:"total_students"`
	TotalSubjects    int64 `json:"total_subjects"`
	TotalSections    int64 `json:"total_sections"`
	TotalEnrollments int64 `json:"total_enrollments"`
}
