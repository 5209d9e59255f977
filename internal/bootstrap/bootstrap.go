package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/rollcall-app/rollcall/internal/app/auth"
	appControllers "github.com/rollcall-app/rollcall/internal/app/controllers"
	appMigrations "github.com/rollcall-app/rollcall/internal/app/migrations"
	appRepos "github.com/rollcall-app/rollcall/internal/app/repositories"
	appRoutes "github.com/rollcall-app/rollcall/internal/app/routes"
	appServices "github.com/rollcall-app/rollcall/internal/app/services"
	"github.com/rollcall-app/rollcall/internal/config"
	"github.com/rollcall-app/rollcall/internal/db"
	appMiddleware "github.com/rollcall-app/rollcall/internal/middleware"
	pkgAuth "github.com/rollcall-app/rollcall/internal/pkg/auth"
	"github.com/rollcall-app/rollcall/internal/pkg/helpers"
	"github.com/rollcall-app/rollcall/internal/pkg/logger"
	"github.com/rollcall-app/rollcall/internal/seed"
)

// Manila fallback offset used when the configured timezone cannot be
// loaded (UTC+8, no DST).
const fallbackUTCOffset = 8 * 60 * 60

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	ClassService           *appServices.ClassService
	ScheduleService        *appServices.ScheduleService
	AnnouncementService    *appServices.AnnouncementService
	AttendanceService      *appServices.AttendanceService
	EnrollmentService      *appServices.EnrollmentService
	AuthController         *appControllers.AuthController
	ClassController        *appControllers.ClassController
	ScheduleController     *appControllers.ScheduleController
	AnnouncementController *appControllers.AnnouncementController
	AttendanceController   *appControllers.AttendanceController
	StudentController      *appControllers.StudentController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	Logger                 zerolog.Logger
	Location               *time.Location
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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seed failures are not fatal
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.Location = helpers.ParseLocation(cfg.Attendance.Timezone, fallbackUTCOffset)

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.ClassRepository,
		deps.Repos.EnrollmentRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
	)

	deps.ScheduleService = appServices.NewScheduleService(
		deps.Repos.ScheduleRepository,
		deps.Repos.ExtraClassRepository,
		deps.Location,
	)

	deps.AttendanceService = appServices.NewAttendanceService(
		deps.Repos.AttendanceRepository,
		deps.Repos.EnrollmentRepository,
		deps.ScheduleService,
		deps.Location,
		helpers.ParseDuration(cfg.Attendance.QRTokenTTL, 2*time.Hour),
	)

	deps.ClassService = appServices.NewClassService(
		deps.Repos.ClassRepository,
		deps.Repos.ScheduleRepository,
		deps.Repos.ExtraClassRepository,
		deps.Repos.AnnouncementRepository,
		deps.Repos.AttendanceRepository,
		deps.Repos.EnrollmentRepository,
	)

	deps.AnnouncementService = appServices.NewAnnouncementService(deps.Repos.AnnouncementRepository)

	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.ClassRepository,
		deps.Repos.ScheduleRepository,
		deps.Repos.ExtraClassRepository,
		deps.Repos.AnnouncementRepository,
		deps.Repos.AttendanceRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ClassController = appControllers.NewClassController(deps.ClassService, deps.AuthzService)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService, deps.AuthzService)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.AnnouncementService, deps.AuthzService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService, deps.AuthzService)
	deps.StudentController = appControllers.NewStudentController(
		deps.EnrollmentService,
		deps.AttendanceService,
		deps.Repos.UserRepository,
		deps.AuthzService,
	)

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

	router := gin.Default()

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ClassController,
		deps.ScheduleController,
		deps.AnnouncementController,
		deps.AttendanceController,
		deps.StudentController,
		deps.AuthMiddleware,
	)

	return router
}
