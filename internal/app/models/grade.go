package models

import "time"

// Grade records one student's score on one assessment.
// Unique per (student, assessment); a second submission updates the existing row.
type Grade struct {
	ID           int64       `json:"id"`
	StudentID    int64       `json:"student_id"`
	AssessmentID int64       `json:"assessment_id"`
	Score        float64     `json:"score"`
	Remarks      string      `json:"remarks,omitempty"`
	DateRecorded time.Time   `json:"date_recorded"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Student      *Student    `json:"student,omitempty"`
	Assessment   *Assessment `json:"assessment,omitempty"`
}

// Percentage returns the score normalized against the assessment's max score.
// Requires the Assessment relation to be loaded; 0 when it is absent or degenerate.
func (g *Grade) Percentage() float64 {
	if g.Assessment == nil || g.Assessment.MaxScore <= 0 {
		return 0
	}
	return g.Score / g.Assessment.MaxScore * 100
}
