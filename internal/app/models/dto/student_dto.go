package dto

// CreateStudentRequest represents student registration data
type CreateStudentRequest struct {
	StudentID   string `json:"student_id" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	Address     string `json:"address"`
	SectionID   *int64 `json:"section_id"`
}

// UpdateStudentRequest represents student update data; nil fields are left unchanged
type UpdateStudentRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	SectionID *int64  `json:"section_id"`
	IsActive  *bool   `json:"is_active"`
}

// CreateSectionRequest represents section creation data
type CreateSectionRequest struct {
	Name      string `json:"name" binding:"required"`
	YearLevel int    `json:"year_level" binding:"required,gt=0"`
}
