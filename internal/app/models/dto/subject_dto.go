package dto

// CreateSubjectRequest represents subject creation data
type CreateSubjectRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Units           int     `json:"units" binding:"required,gt=0"`
	YearLevel       int     `json:"year_level" binding:"required,gt=0"`
	PrerequisiteIDs []int64 `json:"prerequisite_ids"`
}

// UpdateSubjectRequest represents subject update data
type UpdateSubjectRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Units       int    `json:"units" binding:"required,gt=0"`
	YearLevel   int    `json:"year_level" binding:"required,gt=0"`
}

// AddPrerequisiteRequest attaches a prerequisite subject
type AddPrerequisiteRequest struct {
	PrerequisiteID int64 `json:"prerequisite_id" binding:"required,gt=0"`
}

// UpdateWeightsRequest represents grade weight update data for a subject
type UpdateWeightsRequest struct {
	ActivityWeight float64 `json:"activity_weight" binding:"gte=0,lte=100"`
	QuizWeight     float64 `json:"quiz_weight" binding:"gte=0,lte=100"`
	ExamWeight     float64 `json:"exam_weight" binding:"gte=0,lte=100"`
}
