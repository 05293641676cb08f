package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/controllers"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	subjectController *controllers.SubjectController,
	enrollmentController *controllers.EnrollmentController,
	gradeController *controllers.GradeController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		students := authenticated.Group("/students")
		{
			students.POST("", studentController.CreateStudent)
			students.GET("", studentController.GetAllStudents)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
			students.GET("/:id/grades", studentController.GetStudentGradeReport)
		}

		sections := authenticated.Group("/sections")
		{
			sections.POST("", studentController.CreateSection)
			sections.GET("", studentController.GetAllSections)
		}

		subjects := authenticated.Group("/subjects")
		{
			subjects.POST("", subjectController.CreateSubject)
			subjects.GET("", subjectController.GetAllSubjects)
			subjects.GET("/:id", subjectController.GetSubject)
			subjects.PUT("/:id", subjectController.UpdateSubject)
			subjects.DELETE("/:id", subjectController.DeleteSubject)

			subjects.GET("/:id/prerequisites", subjectController.GetPrerequisites)
			subjects.POST("/:id/prerequisites", subjectController.AddPrerequisite)
			subjects.DELETE("/:id/prerequisites/:prerequisiteId", subjectController.RemovePrerequisite)

			subjects.GET("/:id/weights", subjectController.GetWeights)
			subjects.PUT("/:id/weights", subjectController.UpdateWeights)

			subjects.GET("/:id/students", enrollmentController.EnrolledStudents)
			subjects.POST("/:id/bulk-enroll", enrollmentController.BulkEnroll)

			subjects.GET("/:id/assessments", gradeController.ListAssessments)
			subjects.GET("/:id/gradebook", gradeController.GetGradebook)
		}

		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("", enrollmentController.ListEnrollments)
			enrollments.DELETE("/:id", enrollmentController.Unenroll)
		}

		assessments := authenticated.Group("/assessments")
		{
			assessments.POST("", gradeController.CreateAssessment)
			assessments.GET("/:id", gradeController.GetAssessment)
			assessments.PUT("/:id", gradeController.UpdateAssessment)
			assessments.DELETE("/:id", gradeController.DeleteAssessment)
		}

		grades := authenticated.Group("/grades")
		{
			grades.POST("", gradeController.RecordGrade)
			grades.GET("", gradeController.ListGrades)
			grades.POST("/bulk", gradeController.BulkUpsertGrades)
			grades.GET("/final", gradeController.GetFinalGrade)
		}

		authenticated.GET("/dashboard/stats", dashboardController.GetStats)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
