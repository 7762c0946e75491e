package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtpulse/internal/api"
	"courtpulse/internal/config"
	"courtpulse/internal/database"
	"courtpulse/internal/domain"
	"courtpulse/internal/events"
	"courtpulse/internal/export"
	"courtpulse/internal/logging"
	"courtpulse/internal/metrics"
	"courtpulse/internal/models"
	"courtpulse/internal/repository"
	"courtpulse/internal/service"
	"courtpulse/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	courts, err := seedCourts(cfg, db, &logger)
	if err != nil {
		return err
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	snapshotCache := initSnapshotCache(cfg, redisClient, &logger)
	eventBus := events.NewBus()
	events.RegisterDefaultHandlers(eventBus, &logger)

	analyticsSvc := service.NewAnalyticsService(db, snapshotCache, eventBus, cfg.Analytics, &logger)
	userSvc := service.NewUserService(db, &logger)
	courtSvc := service.NewCourtService(db, analyticsSvc, eventBus, courts, &logger)
	bookingSvc := service.NewBookingService(db, analyticsSvc, userSvc, eventBus, &logger)

	exporter := export.NewExporter(cfg.Exports.Path, &logger)
	reportWorker := worker.NewReportWorker(
		analyticsSvc, exporter, redisClient, eventBus,
		worker.RetryPolicy{MaxRetries: cfg.Worker.MaxRetries},
		cfg.Worker.QueueSize, &logger,
	)

	httpServer := api.NewHTTPServer(cfg.API, analyticsSvc, courtSvc, bookingSvc, reportWorker, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportWorker.Start(ctx)
	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadCourts reads the court catalog file. Courts declared inline in the
// main config win over the catalog file when both are present.
func loadCourts(cfg *config.Config, logger *zerolog.Logger) ([]models.Court, error) {
	if len(cfg.Courts) > 0 {
		return cfg.Courts, nil
	}

	courtsPath := os.Getenv("COURTS_PATH")
	if courtsPath == "" {
		courtsPath = "configs/courts.yaml"
	}
	courtsData, err := os.ReadFile(courtsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		logger.Error().Err(err).Str("courts_path", courtsPath).Msg("read courts")
		return nil, err
	}

	var courtsConfig struct {
		Courts []models.Court `yaml:"courts"`
	}
	if err := yaml.Unmarshal(courtsData, &courtsConfig); err != nil {
		logger.Error().Err(err).Str("courts_path", courtsPath).Msg("parse courts")
		return nil, err
	}

	if err := config.ValidateCourts(courtsConfig.Courts); err != nil {
		return nil, err
	}
	return courtsConfig.Courts, nil
}

// seedCourts inserts the configured catalog into an empty database and
// returns the active catalog as stored.
func seedCourts(cfg *config.Config, db *database.DB, logger *zerolog.Logger) ([]models.Court, error) {
	ctx := context.Background()

	existing, err := db.FetchCourts(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	catalog, err := loadCourts(cfg, logger)
	if err != nil {
		return nil, err
	}

	for i := range catalog {
		if err := db.CreateCourt(ctx, &catalog[i]); err != nil {
			return nil, err
		}
	}
	if len(catalog) > 0 {
		logger.Info().Int("count", len(catalog)).Msg("court catalog seeded")
	}

	return db.FetchCourts(ctx, 0)
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initSnapshotCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SnapshotCache {
	ttl := time.Duration(cfg.Analytics.SnapshotTTL) * time.Second
	memory := repository.NewMemorySnapshotCache(ttl)

	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverSnapshotCache(
		repository.NewRedisSnapshotCache(redisClient, ttl),
		memory,
		logger,
	)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
