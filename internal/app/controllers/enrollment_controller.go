package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/middleware"
)

// EnrollmentController handles enrollment operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll enrolls one student into a subject
// @Summary Enroll a student
// @Description Enrolls a student (by student number) into a subject; a previously dropped enrollment is reactivated
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollResponse} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Student is already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid enrollment data", err)
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// BulkEnroll enrolls whole sections into a subject
// @Summary Bulk enroll sections
// @Description Enrolls every student of the given sections into the subject; per-student failures are reported, a storage fault rolls the whole batch back
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Param request body dto.BulkEnrollRequest true "Section IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkEnrollResult} "Batch processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/bulk-enroll [post]
func (c *EnrollmentController) BulkEnroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BulkEnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, "Invalid bulk enrollment data", err)
		return
	}

	result, err := c.enrollmentService.BulkEnroll(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// Unenroll deactivates an enrollment
// @Summary Unenroll a student
// @Description Deactivates the enrollment; the row and its grade history are preserved
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Student unenrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found or already inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student unenrolled"},
		Timestamp: time.Now(),
	})
}

// ListEnrollments lists enrollments
// @Summary List enrollments
// @Description Lists enrollments filtered by student, subject and/or active state
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param student_id query int false "Student ID"
// @Param subject_id query int false "Subject ID"
// @Param is_active query bool false "Active state"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	var filter dto.EnrollmentFilter
	var ok bool

	if filter.StudentID, ok = parseOptionalIDQuery(ctx, "student_id"); !ok {
		return
	}
	if filter.SubjectID, ok = parseOptionalIDQuery(ctx, "subject_id"); !ok {
		return
	}
	if value := ctx.Query("is_active"); value != "" {
		isActive, err := strconv.ParseBool(value)
		if err != nil {
			bindingError(ctx, "Invalid is_active filter", err)
			return
		}
		filter.IsActive = &isActive
	}

	enrollments, err := c.enrollmentService.ListEnrollments(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// EnrolledStudents returns a subject's active roster
// @Summary List enrolled students
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrolledStudentResponse} "Roster retrieved"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id}/students [get]
func (c *EnrollmentController) EnrolledStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.enrollmentService.EnrolledStudents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}
