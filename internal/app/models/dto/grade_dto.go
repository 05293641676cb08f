package dto

// CreateAssessmentRequest represents assessment creation data
type CreateAssessmentRequest struct {
	SubjectID int64   `json:"subject" binding:"required,gt=0"`
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"assessment_type" binding:"required,oneof=activity quiz exam"`
	MaxScore  float64 `json:"max_score" binding:"required,gt=0"`
	Date      *string `json:"date"` // YYYY-MM-DD
}

// UpdateAssessmentRequest represents assessment update data
type UpdateAssessmentRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"assessment_type" binding:"required,oneof=activity quiz exam"`
	MaxScore float64 `json:"max_score" binding:"required,gt=0"`
	Date     *string `json:"date"`
}

// RecordGradeRequest upserts one student's score for one assessment
type RecordGradeRequest struct {
	StudentID    int64   `json:"student" binding:"required,gt=0"`
	AssessmentID int64   `json:"assessment" binding:"required,gt=0"`
	Score        float64 `json:"score" binding:"gte=0"`
	Remarks      string  `json:"remarks"`
}

// BulkGradeItem is one entry of a bulk grade upsert. Fields are pointers so that
// incomplete items can be detected and skipped rather than zero-filled.
type BulkGradeItem struct {
	StudentID    *int64   `json:"student_id"`
	AssessmentID *int64   `json:"assessment_id"`
	Score        *float64 `json:"score"`
}

// BulkUpsertGradesRequest represents a batch of grade upserts
type BulkUpsertGradesRequest struct {
	Grades []BulkGradeItem `json:"grades" binding:"required,min=1"`
}

// BulkUpsertGradesResponse reports how many items were written and how many
// were skipped for missing fields
type BulkUpsertGradesResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// FinalGradeResult is the weighted final grade of one student in one subject
type FinalGradeResult struct {
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// SubjectGradeReport is one row of a student's per-subject grade report
type SubjectGradeReport struct {
	SubjectCode string  `json:"subject_code"`
	SubjectName string  `json:"subject_name"`
	FinalGrade  float64 `json:"final_grade"`
	Status      string  `json:"status"`
}

// GradebookRow is one student's row in a section gradebook. Missing grades are
// shown as 0; that display zero-fill does not feed the final-grade formula.
type GradebookRow struct {
	StudentID      int64              `json:"student_id"`
	StudentName    string             `json:"student_name"`
	Grades         map[string]float64 `json:"grades"`
	TotalScore     float64            `json:"total_score"`
	AveragePercent float64            `json:"average"`
}
