package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	redis_cache "editor-media-sync/internal/cache/redis"
	"editor-media-sync/internal/config"
	metrics_server "editor-media-sync/internal/delivery/metrics"
	"editor-media-sync/internal/logger"
	prometheus_metrics "editor-media-sync/internal/metrics/prometheus"
	media_postgres "editor-media-sync/internal/repository/media/postgres"
	"editor-media-sync/internal/resolution"
	resolution_http "editor-media-sync/internal/resolution/http"
	"editor-media-sync/internal/service/mediasync"
	"editor-media-sync/internal/thumbnail"
	uploadmanager_memory "editor-media-sync/internal/uploadmanager/memory"

	"editor-media-sync/internal/model"
)

// logSink satisfies mediasync.Sink for the dev smoke session.
type logSink struct {
	log *logger.Logger
}

func (s *logSink) Ready() bool { return true }

func (s *logSink) EmitUpdate(event model.UpdateEvent) {
	s.log.Info("Update event",
		slog.Int64("upload_id", int64(event.UploadID)),
		slog.String("state", string(event.State)),
		slog.Float64("progress", event.Progress),
		slog.String("preview_url", event.PreviewURL),
		slog.Int64("server_id", event.ServerID))
}

func main() {
	cfg := config.MustLoad()
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DbName)
	ctx := context.Background()
	log := logger.New(cfg.Env)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	migrator, err := migrate.New("file://"+cfg.Database.MigrationsPath, dsn)
	if err != nil {
		log.Error("Failed to init migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("Connecting to Redis",
		slog.String("address", cfg.Redis.Address),
		slog.Int("port", cfg.Redis.Port),
		slog.Int("db", cfg.Redis.DB))
	redisClient, err := redis_cache.NewClient(cfg.Redis, log)
	if err != nil {
		log.Error("Failed to create Redis client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
		}
	}()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	mediaRepo := media_postgres.NewMediaRepository(pool, log, metrics)
	uploadManager := uploadmanager_memory.NewManager(log)

	resolverClient := resolution_http.NewClient(cfg.Resolution.BaseURL, cfg.Resolution.Timeout, log, metrics)
	resolver := resolution.NewCachedResolver(resolverClient, redisClient, cfg.Resolution.CacheTTL, log, metrics)

	thumbnails, err := thumbnail.NewExtractor(cfg.Thumbnails.Dir, cfg.Thumbnails.MaxDimension, log, metrics)
	if err != nil {
		log.Error("Failed to create thumbnail extractor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	validate := validator.New()
	syncService := mediasync.NewService(mediaRepo, uploadManager, resolver, thumbnails, validate, log, metrics)
	log.Info("Media sync service initialized",
		slog.String("resolution_base_url", cfg.Resolution.BaseURL),
		slog.String("preview_dir", thumbnails.Dir()))

	// Dev smoke session: mirrors every update event into the log so the
	// pipeline can be observed end to end without an editor attached.
	if cfg.Env == "dev" {
		session, err := syncService.OpenSession(cfg.DevPostID, &logSink{log: log})
		if err != nil {
			log.Error("Failed to open dev session", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer session.Close()
	}

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	metricsDone := make(chan bool, 1)

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-metricsDone

	log.Info("Server exited")
}
