// Package bootstrap wires configuration, storage, repositories, services,
// controllers and routes into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/controllers"
	"github.com/dkaraca/coursehub/internal/app/migrations"
	"github.com/dkaraca/coursehub/internal/app/repositories"
	"github.com/dkaraca/coursehub/internal/app/routes"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/config"
	"github.com/dkaraca/coursehub/internal/db"
	"github.com/dkaraca/coursehub/internal/middleware"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
	"github.com/dkaraca/coursehub/internal/pkg/filestorage"
	"github.com/dkaraca/coursehub/internal/pkg/logger"
	"github.com/dkaraca/coursehub/internal/seed"
)

// Dependencies holds the wired application components
type Dependencies struct {
	Repos          *repositories.Repositories
	Services       *services.Services
	Controllers    *controllers.Controllers
	AuthMiddleware *middleware.AuthMiddleware
	JWTService     *auth.JWTService
	Storage        *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and configures the global
// logger from it.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	logger.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info().Msg("Database connection established")

	migrationsDir := cfg.Migrations.Path
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s", migrationsDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Msg("Database migrations applied")

	return database, nil
}

// BuildDependencies wires repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	storage, err := filestorage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	accessExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	refreshExp, err := time.ParseDuration(cfg.JWT.RefreshTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token expiration: %w", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  accessExp,
		RefreshTokenExp: refreshExp,
		TokenIssuer:     cfg.JWT.Issuer,
	})

	repos := repositories.NewRepositories(database.Pool)
	svcs := services.NewServices(repos, database, jwtService, storage)
	ctrls := controllers.NewControllers(svcs)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := seed.Run(ctx, cfg, database, repos); err != nil {
		return nil, fmt.Errorf("failed to seed baseline data: %w", err)
	}

	return &Dependencies{
		Repos:          repos,
		Services:       svcs,
		Controllers:    ctrls,
		AuthMiddleware: authMiddleware,
		JWTService:     jwtService,
		Storage:        storage,
	}, nil
}

// SetupRouter builds the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	routes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
