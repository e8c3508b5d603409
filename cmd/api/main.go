package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskapi/internal/adapter/database/postgres"
	postgresrepo "taskapi/internal/adapter/database/postgres/repository"
	"taskapi/internal/adapter/database/sqlite"
	sqliterepo "taskapi/internal/adapter/database/sqlite/repository"
	"taskapi/internal/adapter/http/handler"
	"taskapi/internal/adapter/http/routes"
	"taskapi/internal/core/domain"
	"taskapi/internal/core/port"
	"taskapi/internal/core/service"
	"taskapi/internal/shared"
)

func main() {
	ctx := context.Background()

	settings := shared.LoadSettings()

	logger, err := shared.NewLogger(settings.Debug)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    settings.AppName,
		ServiceVersion: "1.0.0",
		Environment:    settings.Environment,
		MetricsPort:    settings.MetricsPort,
		OTLPEndpoint:   settings.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	profile, err := domain.ProfileByName(settings.TaskProfile)

	if err != nil {
		logger.Fatal("Invalid task profile", zap.Error(err))
	}

	repo, closeDB, err := openRepository(ctx, settings, metrics)

	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	defer closeDB()

	svc := service.NewTaskService(repo, logger, metrics)

	router := routes.SetupRouter(routes.HandlersConfig{
		TaskHandler:   handler.NewTaskHandler(svc, profile, logger),
		HealthHandler: handler.NewHealthHandler(svc),
	}, metrics, logger, settings)

	srv := &http.Server{
		Addr:         ":" + settings.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", settings.Port),
			zap.String("environment", settings.Environment),
			zap.String("driver", settings.DatabaseDriver),
			zap.String("profile", profile.Name),
			zap.Bool("rate_limit_enabled", settings.RateLimitEnabled),
			zap.Bool("https_enforced", settings.EnforceHTTPS))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func openRepository(ctx context.Context, settings *shared.Settings, metrics *shared.AppMetrics) (port.TaskRepository, func(), error) {
	if settings.DatabaseDriver == "postgres" {
		db, err := postgres.NewDB(ctx, postgres.Config{
			URL:            settings.DatabaseURL,
			MigrationsPath: settings.MigrationsPath,
		})

		if err != nil {
			return nil, nil, err
		}

		return postgresrepo.NewTaskRepository(db, metrics), db.Close, nil
	}

	db, err := sqlite.NewDB(sqlite.Config{
		Path:           settings.DatabasePath,
		MigrationsPath: settings.MigrationsPath,
		Debug:          settings.Debug,
	})

	if err != nil {
		return nil, nil, err
	}

	return sqliterepo.NewTaskRepository(db, metrics), func() { db.Close() }, nil
}
