package models

import "time"

// Subject represents a course that students enroll in
type Subject struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Units         int        `json:"units"`
	YearLevel     int        `json:"year_level"`
	CreatedAt     time.Time  `json:"created_at"`
	Prerequisites []*Subject `json:"prerequisites,omitempty"`
}

// Default category weights applied when a subject has no GradeWeight row yet
const (
	DefaultActivityWeight = 30.0
	DefaultQuizWeight     = 30.0
	DefaultExamWeight     = 40.0
)

// WeightSumTolerance is the allowed deviation of the weight sum from 100
const WeightSumTolerance = 0.01

// GradeWeight holds the category percentages for one subject.
// Invariant: ActivityWeight + QuizWeight + ExamWeight = 100 within WeightSumTolerance.
type GradeWeight struct {
	ID             int64   `json:"id"`
	SubjectID      int64   `json:"subject_id"`
	ActivityWeight float64 `json:"activity_weight"`
	QuizWeight     float64 `json:"quiz_weight"`
	ExamWeight     float64 `json:"exam_weight"`
}

// WeightFor returns the percentage weight for an assessment type
func (w *GradeWeight) WeightFor(t AssessmentType) float64 {
	switch t {
	case AssessmentActivity:
		return w.ActivityWeight
	case AssessmentQuiz:
		return w.QuizWeight
	case AssessmentExam:
		return w.ExamWeight
	}
	return 0
}
