package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/classtrack/classtrack/internal/app/controllers"
	appMigrations "github.com/classtrack/classtrack/internal/app/migrations"
	appRepos "github.com/classtrack/classtrack/internal/app/repositories"
	appRoutes "github.com/classtrack/classtrack/internal/app/routes"
	appServices "github.com/classtrack/classtrack/internal/app/services"
	"github.com/classtrack/classtrack/internal/config"
	"github.com/classtrack/classtrack/internal/db"
	appMiddleware "github.com/classtrack/classtrack/internal/middleware"
	pkgAuth "github.com/classtrack/classtrack/internal/pkg/auth"
	"github.com/classtrack/classtrack/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	StudentService    appServices.StudentService
	SubjectService    appServices.SubjectService
	WeightService     appServices.WeightService
	EnrollmentService appServices.EnrollmentService
	GradeService      appServices.GradeService
	GradebookService  appServices.GradebookService
	DashboardService  appServices.DashboardService

	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	SubjectController    *appControllers.SubjectController
	EnrollmentController *appControllers.EnrollmentController
	GradeController      *appControllers.GradeController
	DashboardController  *appControllers.DashboardController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.GetAccessTokenExpiration(),
		RefreshTokenExp: cfg.GetRefreshTokenExpiration(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.Users,
		deps.Repos.Tokens,
		deps.JWTService,
		cfg.GetRefreshTokenExpiration(),
	)
	deps.StudentService = appServices.NewStudentService(deps.Repos.Students, deps.Repos.Sections)
	deps.SubjectService = appServices.NewSubjectService(deps.Repos.Subjects)
	deps.WeightService = appServices.NewWeightService(deps.Repos.Weights, deps.Repos.Subjects)
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Repos)
	deps.GradeService = appServices.NewGradeService(deps.Repos, deps.WeightService)
	deps.GradebookService = appServices.NewGradebookService(deps.Repos)
	deps.DashboardService = appServices.NewDashboardService(deps.Repos)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.GradeService)
	deps.SubjectController = appControllers.NewSubjectController(deps.SubjectService, deps.WeightService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService, deps.GradebookService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.SubjectController,
		deps.EnrollmentController,
		deps.GradeController,
		deps.DashboardController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
