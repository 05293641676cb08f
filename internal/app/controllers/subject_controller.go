package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// SubjectController handles subject catalog, prerequisite and weight operations
type SubjectController struct {
	subjectService services.SubjectService
	weightService  services.WeightService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService, weightService services.WeightService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
		weightService:  weightService,
	}
}

// CreateSubject creates a subject
// @Summary Create a subject
// @Description Creates a subject, optionally attaching prerequisites
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid subject data", err)
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      subject,
		Timestamp: time.Now(),
	})
}

// GetSubject retrieves a subject with its prerequisites
// @Summary Get subject details
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid subject ID"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subject, err := c.subjectService.GetSubject(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subject,
		Timestamp: time.Now(),
	})
}

// GetAllSubjects lists all subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *SubjectController) GetAllSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.ListSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subjects,
		Timestamp: time.Now(),
	})
}

// UpdateSubject updates a subject
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param request body dto.UpdateSubjectRequest true "Updated subject information"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [put]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid subject data", err)
		return
	}

	subject, err := c.subjectService.UpdateSubject(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subject,
		Timestamp: time.Now(),
	})
}

// DeleteSubject deletes a subject
// @Summary Delete a subject
// @Description Deletes a subject along with its assessments, weights and enrollments
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Subject deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid subject ID"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.subjectService.DeleteSubject(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// GetPrerequisites lists a subject's prerequisites
// @Summary List prerequisites
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Prerequisites retrieved"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/prerequisites [get]
func (c *SubjectController) GetPrerequisites(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	prerequisites, err := c.subjectService.ListPrerequisites(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      prerequisites,
		Timestamp: time.Now(),
	})
}

// AddPrerequisite attaches a prerequisite to a subject
// @Summary Add a prerequisite
// @Description Attaches a prerequisite; self-references and cycles are rejected
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param request body dto.AddPrerequisiteRequest true "Prerequisite subject"
// @Success 201 {object} dto.APIResponse "Prerequisite added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or prerequisite cycle"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/prerequisites [post]
func (c *SubjectController) AddPrerequisite(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddPrerequisiteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid prerequisite data", err)
		return
	}

	if err := c.subjectService.AddPrerequisite(ctx, id, req.PrerequisiteID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// RemovePrerequisite detaches a prerequisite from a subject
// @Summary Remove a prerequisite
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param prerequisiteId path int true "Prerequisite subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Prerequisite removed"
// @Failure 404 {object} dto.ErrorResponse "Subject or prerequisite not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/prerequisites/{prerequisiteId} [delete]
func (c *SubjectController) RemovePrerequisite(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	prerequisiteID, ok := parseIDParam(ctx, "prerequisiteId")
	if !ok {
		return
	}

	if err := c.subjectService.RemovePrerequisite(ctx, id, prerequisiteID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// GetWeights returns a subject's grade weights
// @Summary Get grade weights
// @Description Returns the subject's category weights, creating the default 30/30/40 split on first access
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.GradeWeight} "Weights retrieved"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/weights [get]
func (c *SubjectController) GetWeights(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	weights, err := c.weightService.Resolve(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      weights,
		Timestamp: time.Now(),
	})
}

// UpdateWeights updates a subject's grade weights
// @Summary Update grade weights
// @Description Sets the category weights; the three must sum to 100 within a 0.01 tolerance
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param request body dto.UpdateWeightsRequest true "New weights"
// @Success 200 {object} dto.APIResponse{data=models.GradeWeight} "Weights updated"
// @Failure 400 {object} dto.ErrorResponse "Weights do not sum to 100"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/weights [put]
func (c *SubjectController) UpdateWeights(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateWeightsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid weight data", err)
		return
	}

	weights, err := c.weightService.Update(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      weights,
		Timestamp: time.Now(),
	})
}
