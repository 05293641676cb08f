package services

import (
	"math"

	"github.com/classtrack/classtrack/internal/app/models"
)

// Grade status bands for a final grade percentage.
const (
	StatusExcellent        = "Excellent"
	StatusGood             = "Good"
	StatusPassing          = "Passing"
	StatusNeedsImprovement = "Needs Improvement"
	StatusNotAvailable     = "N/A"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// categoryAverage returns the mean normalized percentage (score/max*100) of the
// given grades. Grades whose assessment has a non-positive max score are
// excluded; ok is false when nothing remains to average.
func categoryAverage(grades []*models.Grade) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, grade := range grades {
		if grade.Assessment == nil || grade.Assessment.MaxScore <= 0 {
			continue
		}
		sum += grade.Score / grade.Assessment.MaxScore * 100
		n++
	}

	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// computeFinalGrade combines per-category averages into one weighted grade.
// Only categories that have at least one graded assessment and a positive
// weight participate; the weights of participating categories are renormalized
// so a student with no exam grades yet is not dragged down by the exam weight.
// ok is false when no category participates.
func computeFinalGrade(grades []*models.Grade, weights *models.GradeWeight) (value float64, ok bool) {
	if weights == nil {
		return 0, false
	}

	byType := make(map[models.AssessmentType][]*models.Grade)
	for _, grade := range grades {
		if grade.Assessment == nil {
			continue
		}
		byType[grade.Assessment.Type] = append(byType[grade.Assessment.Type], grade)
	}

	var weightedSum, weightTotal float64
	for _, assessmentType := range models.AssessmentTypes {
		weight := weights.WeightFor(assessmentType)
		if weight <= 0 {
			continue
		}
		avg, hasGrades := categoryAverage(byType[assessmentType])
		if !hasGrades {
			continue
		}
		weightedSum += avg * weight / 100
		weightTotal += weight / 100
	}

	if weightTotal == 0 {
		return 0, false
	}
	return round2(weightedSum / weightTotal), true
}

// GradeStatus maps a final grade percentage to its status band
func GradeStatus(value float64) string {
	switch {
	case value >= 90:
		return StatusExcellent
	case value >= 80:
		return StatusGood
	case value >= 75:
		return StatusPassing
	default:
		return StatusNeedsImprovement
	}
}
