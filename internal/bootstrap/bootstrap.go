package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	appControllers "github.com/yigit/campuscare/internal/app/controllers"
	appMigrations "github.com/yigit/campuscare/internal/app/migrations"
	appRepos "github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/app/repositories/mongostore"
	appRoutes "github.com/yigit/campuscare/internal/app/routes"
	appServices "github.com/yigit/campuscare/internal/app/services"
	"github.com/yigit/campuscare/internal/config"
	"github.com/yigit/campuscare/internal/db"
	appMiddleware "github.com/yigit/campuscare/internal/middleware"
	pkgAuth "github.com/yigit/campuscare/internal/pkg/auth"
	"github.com/yigit/campuscare/internal/pkg/logger"
	"github.com/yigit/campuscare/internal/pkg/phone"
	"github.com/yigit/campuscare/internal/pkg/stream"
	"github.com/yigit/campuscare/internal/seed"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// Storage is the selected persistence backend and its teardown
type Storage struct {
	Store appRepos.Store
	close func()
}

// Close releases the underlying connections
func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService    *appServices.StudentService
	Reconciler        *appServices.MenteeReconciler
	StudentController *appControllers.StudentController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	RateLimiter       *appMiddleware.RateLimiter
	TokenSigner       *pkgAuth.TokenSigner
	StreamClient      *stream.Client
	Store             appRepos.Store
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured storage backend, prepares its schema and
// seeds development counselors.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	var storage *Storage
	var err error

	switch cfg.Database.Driver {
	case config.DriverMongo:
		storage, err = setupMongo(ctx, cfg, lgr)
	default:
		storage, err = setupPostgres(ctx, cfg, lgr)
	}
	if err != nil {
		return nil, err
	}

	seedCtx, cancel := context.WithTimeout(ctx, cfg.StorageTimeout())
	defer cancel()
	if _, err := seed.CreateDefaultCounselors(seedCtx, storage.Store, cfg.Seed.Counselors, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default counselors, proceeding anyway...")
	}

	return storage, nil
}

func setupPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Storage{
		Store: appRepos.NewRepositories(database.Pool),
		close: database.Close,
	}, nil
}

func setupMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Msg("Establishing MongoDB connection...")
	database, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
		return nil, err
	}

	if err := mongostore.EnsureIndexes(ctx, database.Database); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Failed to create MongoDB indexes")
		return nil, err
	}

	return &Storage{
		Store: mongostore.New(database.Client, database.Database),
		close: database.Close,
	}, nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.TokenSigner = pkgAuth.NewTokenSigner(pkgAuth.JWTConfig{
		SecretKey:   cfg.Stream.APISecret,
		TokenTTL:    cfg.TokenTTL(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.StreamClient = stream.NewClient(stream.Config{
		BaseURL:        cfg.Stream.BaseURL,
		APIKey:         cfg.Stream.APIKey,
		ServiceToken:   cfg.Stream.ServiceToken,
		MaxAttempts:    uint(cfg.Stream.MaxAttempts),
		RequestTimeout: cfg.ExternalTimeout(),
	}, &http.Client{}, logger.WithComponent("stream"))

	provisioner := appServices.NewStreamProvisioner(deps.StreamClient, logger.WithComponent("provisioner"))
	credentials := appServices.NewCredentialService(store.Students(), deps.TokenSigner, cfg.StorageTimeout(), logger.WithComponent("credentials"))

	deps.StudentService = appServices.NewStudentService(
		store,
		credentials,
		provisioner,
		pkgAuth.NewPasswordHasher(cfg.Security.BcryptCost),
		phone.NewNormalizer(cfg.Phone.DefaultRegion),
		appServices.StudentServiceConfig{
			StorageTimeout:    cfg.StorageTimeout(),
			MaxAssignAttempts: cfg.Assignment.MaxAttempts,
		},
		logger.WithComponent("students"),
	)

	deps.Reconciler = appServices.NewMenteeReconciler(store, cfg.Assignment.MaxAttempts, cfg.StorageTimeout(), logger.WithComponent("reconciler"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.TokenSigner)
	deps.RateLimiter = appMiddleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)

	return deps
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

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.AuthMiddleware,
		deps.RateLimiter,
	)
	appRoutes.SetupSwagger(router)

	return router
}

// ReconcileMentees restores counselor links lost by interrupted registrations.
func ReconcileMentees(ctx context.Context, deps *Dependencies) (int, error) {
	repaired, err := deps.Reconciler.Reconcile(ctx)
	if err != nil {
		deps.Logger.Error().Err(err).Int("repaired", repaired).Msg("Mentee reconciliation failed")
		return repaired, err
	}
	deps.Logger.Info().Int("repaired", repaired).Msg("Mentee reconciliation finished")
	return repaired, nil
}
