package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"courtpulse/internal/analytics"
	"courtpulse/internal/config"
	"courtpulse/internal/database"
	"courtpulse/internal/export"
	"courtpulse/internal/logging"
	"courtpulse/internal/models"
	"courtpulse/internal/service"

	"github.com/google/uuid"
)

// One-shot report builder: renders a single owner revenue report and
// prints the resulting file path. Useful for cron and manual runs
// without the API process.
func main() {
	var (
		ownerID = flag.Int64("owner", 0, "owner id (required)")
		period  = flag.String("period", "monthly", "period mode: monthly or yearly")
		month   = flag.Int("month", 0, "month 1-12 (defaults to current)")
		year    = flag.Int("year", 0, "year (defaults to current)")
	)
	flag.Parse()

	if err := run(*ownerID, *period, *month, *year); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ownerID int64, period string, month, year int) error {
	if ownerID <= 0 {
		return fmt.Errorf("-owner is required")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := baseLogger.With().Str("component", "report-cli").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	now := time.Now()
	task := models.ReportTask{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		PeriodMode:  period,
		MonthIndex:  int(now.Month()) - 1,
		Year:        now.Year(),
		RequestedAt: now,
	}
	if month >= 1 && month <= 12 {
		task.MonthIndex = month - 1
	}
	if year > 0 {
		task.Year = year
	}

	ctx := context.Background()
	analyticsSvc := service.NewAnalyticsService(db, nil, nil, cfg.Analytics, &logger)

	opts := analytics.Options{
		PeriodMode:    analytics.PeriodMode(task.PeriodMode),
		SelectedMonth: task.MonthIndex,
		SelectedYear:  task.Year,
	}
	if opts.PeriodMode == analytics.PeriodYearly {
		opts.BucketMode = analytics.BucketYearly
	}

	cards, err := analyticsSvc.PeriodMetrics(ctx, ownerID, opts)
	if err != nil {
		return fmt.Errorf("period metrics: %w", err)
	}
	slices, err := analyticsSvc.ProportionSeries(ctx, ownerID, opts)
	if err != nil {
		return fmt.Errorf("proportions: %w", err)
	}
	series, err := analyticsSvc.BucketSeries(ctx, ownerID, opts)
	if err != nil {
		return fmt.Errorf("bucket series: %w", err)
	}
	history, err := analyticsSvc.HistoryPage(ctx, ownerID, opts)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	exporter := export.NewExporter(cfg.Exports.Path, &logger)
	path, err := exporter.WriteRevenueReport(task, cards, slices, series, history)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Println(path)
	return nil
}
