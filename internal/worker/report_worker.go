package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtpulse/internal/analytics"
	"courtpulse/internal/domain"
	"courtpulse/internal/events"
	"courtpulse/internal/export"
	"courtpulse/internal/metrics"
	"courtpulse/internal/models"
	"courtpulse/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	reportQueueKey      = "reports:queue"
	reportDeadLetterKey = "reports:deadletter"
)

// ReportWorker consumes report tasks and renders xlsx revenue reports.
// Tasks go to redis when available; the in-memory queue is the fallback
// so a single-node deployment works without redis.
type ReportWorker struct {
	analytics    *service.AnalyticsService
	exporter     *export.Exporter
	redis        *redis.Client
	eventBus     domain.EventPublisher
	retryPolicy  RetryPolicy
	queue        chan models.ReportTask
	pollInterval time.Duration
	logger       zerolog.Logger
}

func NewReportWorker(
	analyticsSvc *service.AnalyticsService,
	exporter *export.Exporter,
	redisClient *redis.Client,
	eventBus domain.EventPublisher,
	retry RetryPolicy,
	queueSize int,
	logger *zerolog.Logger,
) *ReportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if queueSize <= 0 {
		queueSize = models.WorkerQueueSize
	}

	return &ReportWorker{
		analytics:    analyticsSvc,
		exporter:     exporter,
		redis:        redisClient,
		eventBus:     eventBus,
		retryPolicy:  retry,
		queue:        make(chan models.ReportTask, queueSize),
		pollInterval: 2 * time.Second,
		logger:       logger.With().Str("component", "report_worker").Logger(),
	}
}

// Enqueue schedules a report task via redis or the in-memory queue.
func (w *ReportWorker) Enqueue(ctx context.Context, task models.ReportTask) error {
	if task.ID == "" {
		return errors.New("task id is required")
	}
	if task.OwnerID <= 0 {
		return errors.New("owner id is required")
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Str("task_id", task.ID).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return fmt.Errorf("report queue is full")
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report worker started")
	defer w.logger.Info().Msg("report worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if task, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, task)
			continue
		}

		if task, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, task)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *ReportWorker) tryLocalQueue() (models.ReportTask, bool) {
	select {
	case task := <-w.queue:
		return task, true
	default:
		return models.ReportTask{}, false
	}
}

func (w *ReportWorker) tryRedis(ctx context.Context) (models.ReportTask, bool) {
	if w.redis == nil {
		return models.ReportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, reportQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return models.ReportTask{}, false
		}
		w.logger.Error().Err(err).Msg("redis BRPOP error")
		return models.ReportTask{}, false
	}
	if len(res) != 2 {
		return models.ReportTask{}, false
	}
	var task models.ReportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("decode redis task")
		return models.ReportTask{}, false
	}
	return task, true
}

func (w *ReportWorker) processTask(ctx context.Context, task models.ReportTask) {
	path, err := w.buildReport(ctx, task)
	if err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	metrics.IncReport()
	w.logger.Info().Str("task_id", task.ID).Str("path", path).Msg("report ready")

	if w.eventBus != nil {
		payload := events.ReportEventPayload{TaskID: task.ID, OwnerID: task.OwnerID, Path: path}
		if err := w.eventBus.PublishJSON(events.EventReportReady, payload); err != nil {
			w.logger.Error().Err(err).Str("task_id", task.ID).Msg("publish report event error")
		}
	}
}

// buildReport runs the four dashboard queries and hands the results to
// the exporter.
func (w *ReportWorker) buildReport(ctx context.Context, task models.ReportTask) (string, error) {
	opts := analytics.Options{
		PeriodMode:    analytics.PeriodMode(task.PeriodMode),
		SelectedMonth: task.MonthIndex,
		SelectedYear:  task.Year,
	}
	if opts.PeriodMode == analytics.PeriodYearly {
		opts.BucketMode = analytics.BucketYearly
	}

	cards, err := w.analytics.PeriodMetrics(ctx, task.OwnerID, opts)
	if err != nil {
		return "", fmt.Errorf("period metrics: %w", err)
	}
	slices, err := w.analytics.ProportionSeries(ctx, task.OwnerID, opts)
	if err != nil {
		return "", fmt.Errorf("proportions: %w", err)
	}
	series, err := w.analytics.BucketSeries(ctx, task.OwnerID, opts)
	if err != nil {
		return "", fmt.Errorf("bucket series: %w", err)
	}
	history, err := w.analytics.HistoryPage(ctx, task.OwnerID, opts)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}

	return w.exporter.WriteRevenueReport(task, cards, slices, series, history)
}

func (w *ReportWorker) retryOrFail(ctx context.Context, task models.ReportTask, cause error) {
	task.Attempts++
	if task.Attempts >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).Str("task_id", task.ID).Int("attempts", task.Attempts).Msg("report task failed")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.Attempts)
	w.logger.Warn().Err(cause).Str("task_id", task.ID).Dur("retry_in", delay).Msg("report task retry")

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			if err := w.Enqueue(ctx, task); err != nil {
				w.logger.Error().Err(err).Str("task_id", task.ID).Msg("re-enqueue failed")
			}
		}
	}()
}

func (w *ReportWorker) pushRedis(ctx context.Context, task models.ReportTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, reportQueueKey, data).Err()
}

func (w *ReportWorker) pushDeadLetter(ctx context.Context, task models.ReportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, reportDeadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("deadletter push")
	}
}
