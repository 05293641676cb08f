package models

import "time"

// AssessmentType categorizes assessments for grade weighting
type AssessmentType string

const (
	AssessmentActivity AssessmentType = "activity"
	AssessmentQuiz     AssessmentType = "quiz"
	AssessmentExam     AssessmentType = "exam"
)

// AssessmentTypes lists the valid categories in weighting order
var AssessmentTypes = []AssessmentType{AssessmentActivity, AssessmentQuiz, AssessmentExam}

// IsValid reports whether t is a known assessment type
func (t AssessmentType) IsValid() bool {
	switch t {
	case AssessmentActivity, AssessmentQuiz, AssessmentExam:
		return true
	}
	return false
}

// Assessment is a graded item belonging to one subject
type Assessment struct {
	ID        int64          `json:"id"`
	SubjectID int64          `json:"subject_id"`
	Name      string         `json:"name"`
	Type      AssessmentType `json:"assessment_type"`
	MaxScore  float64        `json:"max_score"`
	Date      *time.Time     `json:"date,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Subject   *Subject       `json:"subject,omitempty"`
}
