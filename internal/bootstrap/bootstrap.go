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

	appControllers "github.com/edulearn/backend/internal/app/controllers"
	appMigrations "github.com/edulearn/backend/internal/app/migrations"
	appRepos "github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/app/repositories/memstore"
	appRoutes "github.com/edulearn/backend/internal/app/routes"
	appServices "github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/config"
	"github.com/edulearn/backend/internal/db"
	appMiddleware "github.com/edulearn/backend/internal/middleware"
	pkgAuth "github.com/edulearn/backend/internal/pkg/auth"
	"github.com/edulearn/backend/internal/pkg/filestorage"
	"github.com/edulearn/backend/internal/pkg/helpers"
	"github.com/edulearn/backend/internal/pkg/logger"
	"github.com/edulearn/backend/internal/seed"
)

// ConfigPathEnv overrides the default configuration file location
const ConfigPathEnv = "EDULEARN_CONFIG"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	DBPool         *pgxpool.Pool // nil with the memory driver
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	LoginLimiter   *appMiddleware.LoginRateLimiter
	Logger         zerolog.Logger
}

// ConfigPath returns the configuration file to load
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnv)); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
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

// SetupDatabase opens the configured store. For postgres it connects and
// applies migrations; for memory it returns a fresh in-process store.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return memstore.New(), nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return appRepos.NewRepositories(dbPool), dbPool, nil
}

// NewJWTService builds the token service from configuration
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:     cfg.JWT.Secret,
		UserTokenExp:  helpers.ParseDuration(cfg.JWT.UserTokenExpiration, 24*time.Hour),
		AdminTokenExp: helpers.ParseDuration(cfg.JWT.AdminTokenExpiration, 7*24*time.Hour),
		TokenIssuer:   cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes services, middleware and controllers on top of repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, DBPool: dbPool, Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = NewJWTService(cfg)

	deps.Services = appServices.NewServices(repos, deps.JWTService, deps.FileStorage, appServices.Options{
		CascadeSubjectDelete: cfg.Content.CascadeSubjectDelete,
		AtomicBulkUpload:     cfg.Content.AtomicBulkUpload,
		MaxUploadBytes:       cfg.Server.MaxUploadBytes,
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.JWT.Header)
	deps.LoginLimiter = appMiddleware.NewLoginRateLimiter(cfg.Security.LoginRatePerMinute, cfg.Security.LoginBurst)

	// a typed nil pool must not reach the interface
	var pinger appControllers.Pinger
	if dbPool != nil {
		pinger = dbPool
	}

	deps.Controllers = &appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.Services.Auth),
		Catalog:  appControllers.NewCatalogController(deps.Services.Catalog),
		Admin:    appControllers.NewAdminController(deps.Services.Catalog, deps.Services.Bulk, deps.Services.Stats),
		Notes:    appControllers.NewNoteController(deps.Services.Notes),
		Progress: appControllers.NewProgressController(deps.Services.Progress),
		Bookmark: appControllers.NewBookmarkController(deps.Services.Bookmarks),
		Health:   appControllers.NewHealthController(cfg.Database.Driver, pinger),
	}

	return deps, nil
}

// SeedDefaults creates the default admin account when seeding is enabled
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	return seed.CreateDefaultData(ctx, cfg, deps.Services.Maintenance, deps.Logger)
}

// multipartOverhead leaves room for the note form fields and part headers
// on top of the file size limit
const multipartOverhead = 64 << 10

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.Server.CORSOrigins, cfg.JWT.Header))
	// multipart parts beyond this are spooled to disk
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter, appRoutes.BodyLimits{
		NoteUpload: cfg.Server.MaxUploadBytes + multipartOverhead,
		BulkUpload: cfg.Server.MaxBulkUploadBytes,
	})

	router.Static(cfg.Server.PublicPrefix, deps.FileStorage.BasePath())

	return router
}
