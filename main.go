package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/cache"
	"github.com/gsocguide/backend/pkg/config"
	"github.com/gsocguide/backend/pkg/database"
	"github.com/gsocguide/backend/pkg/handlers"
	"github.com/gsocguide/backend/pkg/logging"
	"github.com/gsocguide/backend/pkg/middleware"
	"github.com/gsocguide/backend/pkg/repositories"
	"github.com/gsocguide/backend/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// golang-migrate drives a database/sql connection, not the pgx pool.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if rdb == nil {
		logger.Info("Redis not configured, response caching disabled")
	}
	responseCache := cache.New(rdb, time.Duration(cfg.Redis.TTLSecs)*time.Second)

	orgRepo := repositories.NewOrganizationRepository(db)
	projectRepo := repositories.NewProjectRepository(db)

	orgService := services.NewOrganizationService(orgRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	statsService := services.NewStatsService(orgRepo, responseCache, logger)
	firstTimeService := services.NewFirstTimeService(orgRepo, responseCache, cfg.MinYear, cfg.MaxYear, logger)

	mux := http.NewServeMux()
	handlers.NewOrganizationsHandler(orgService, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, logger).RegisterRoutes(mux)
	handlers.NewYearsHandler(statsService, logger).RegisterRoutes(mux)
	handlers.NewTechStackHandler(statsService, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(statsService, logger).RegisterRoutes(mux)
	handlers.NewHealthHandler(db, cfg, logger).RegisterRoutes(mux)
	handlers.NewAdminHandler(firstTimeService, cfg.AdminAPIKey, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:      middleware.RequestLogger(logger)(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.Info("Starting gsocguide-backend",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
