package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// GradeController handles assessment, grading and gradebook operations
type GradeController struct {
	gradeService     services.GradeService
	gradebookService services.GradebookService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService, gradebookService services.GradebookService) *GradeController {
	return &GradeController{
		gradeService:     gradeService,
		gradebookService: gradebookService,
	}
}

// CreateAssessment creates an assessment
// @Summary Create an assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssessmentRequest true "Assessment information"
// @Success 201 {object} dto.APIResponse{data=models.Assessment} "Assessment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments [post]
func (c *GradeController) CreateAssessment(ctx *gin.Context) {
	var req dto.CreateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid assessment data", err)
		return
	}

	assessment, err := c.gradeService.CreateAssessment(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      assessment,
		Timestamp: time.Now(),
	})
}

// GetAssessment retrieves an assessment
// @Summary Get assessment details
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Assessment} "Assessment retrieved"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments/{id} [get]
func (c *GradeController) GetAssessment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assessment, err := c.gradeService.GetAssessment(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      assessment,
		Timestamp: time.Now(),
	})
}

// ListAssessments lists a subject's assessments
// @Summary List assessments
// @Description Lists a subject's assessments, optionally narrowed to one type
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param type query string false "Assessment type" Enums(activity, quiz, exam)
// @Success 200 {object} dto.APIResponse{data=[]models.Assessment} "Assessments retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid assessment type"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/assessments [get]
func (c *GradeController) ListAssessments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var assessmentType *models.AssessmentType
	if value := ctx.Query("type"); value != "" {
		parsed := models.AssessmentType(value)
		if !parsed.IsValid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assessment type")
			errorDetail = errorDetail.WithDetails("type must be one of: activity, quiz, exam").WithField("type")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		assessmentType = &parsed
	}

	assessments, err := c.gradeService.ListAssessments(ctx, id, assessmentType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      assessments,
		Timestamp: time.Now(),
	})
}

// UpdateAssessment updates an assessment
// @Summary Update an assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID" Format(int64) minimum(1)
// @Param request body dto.UpdateAssessmentRequest true "Updated assessment information"
// @Success 200 {object} dto.APIResponse{data=models.Assessment} "Assessment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments/{id} [put]
func (c *GradeController) UpdateAssessment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid assessment data", err)
		return
	}

	assessment, err := c.gradeService.UpdateAssessment(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      assessment,
		Timestamp: time.Now(),
	})
}

// DeleteAssessment deletes an assessment
// @Summary Delete an assessment
// @Description Deletes an assessment along with its recorded grades
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Assessment deleted"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments/{id} [delete]
func (c *GradeController) DeleteAssessment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.gradeService.DeleteAssessment(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// RecordGrade records one grade
// @Summary Record a grade
// @Description Upserts one student's score for one assessment; the score must lie within [0, max_score]
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordGradeRequest true "Grade to record"
// @Success 201 {object} dto.APIResponse{data=models.Grade} "Grade recorded"
// @Failure 400 {object} dto.ErrorResponse "Score out of range"
// @Failure 404 {object} dto.ErrorResponse "Student or assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades [post]
func (c *GradeController) RecordGrade(ctx *gin.Context) {
	var req dto.RecordGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid grade data", err)
		return
	}

	grade, err := c.gradeService.RecordGrade(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// BulkUpsertGrades writes a batch of grades
// @Summary Bulk upsert grades
// @Description Writes a batch of grades in one transaction; items missing a field are skipped and counted
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkUpsertGradesRequest true "Grades to write"
// @Success 200 {object} dto.APIResponse{data=dto.BulkUpsertGradesResponse} "Batch written"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/bulk [post]
func (c *GradeController) BulkUpsertGrades(ctx *gin.Context) {
	var req dto.BulkUpsertGradesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid bulk grade data", err)
		return
	}

	result, err := c.gradeService.BulkUpsertGrades(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ListGrades lists grades
// @Summary List grades
// @Description Lists grades filtered by student and/or subject
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param student_id query int false "Student ID"
// @Param subject_id query int false "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade} "Grades retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	studentID, ok := parseOptionalIDQuery(ctx, "student_id")
	if !ok {
		return
	}
	subjectID, ok := parseOptionalIDQuery(ctx, "subject_id")
	if !ok {
		return
	}

	grades, err := c.gradeService.ListGrades(ctx, studentID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grades,
		Timestamp: time.Now(),
	})
}

// GetFinalGrade computes one student's final grade in a subject
// @Summary Compute a final grade
// @Description Computes the weighted final grade and its status band for one student in one subject
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param student_id query int true "Student ID"
// @Param subject_id query int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.FinalGradeResult} "Final grade computed"
// @Failure 400 {object} dto.ErrorResponse "Missing student or subject"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/final [get]
func (c *GradeController) GetFinalGrade(ctx *gin.Context) {
	studentID, ok := parseOptionalIDQuery(ctx, "student_id")
	if !ok {
		return
	}
	subjectID, ok := parseOptionalIDQuery(ctx, "subject_id")
	if !ok {
		return
	}
	if studentID == nil || subjectID == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "student_id and subject_id are required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.gradeService.FinalGrade(ctx, *studentID, *subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// GetGradebook builds a subject's gradebook matrix
// @Summary Build a gradebook
// @Description Produces one row per actively enrolled student with a column for every assessment; missing grades show as 0
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param section_id query int false "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GradebookRow} "Gradebook built"
// @Failure 404 {object} dto.ErrorResponse "Subject or section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/gradebook [get]
func (c *GradeController) GetGradebook(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	sectionID, ok := parseOptionalIDQuery(ctx, "section_id")
	if !ok {
		return
	}

	rows, err := c.gradebookService.Build(ctx, id, sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      rows,
		Timestamp: time.Now(),
	})
}
