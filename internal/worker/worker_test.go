package worker

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"courtpulse/internal/config"
	"courtpulse/internal/database"
	"courtpulse/internal/events"
	"courtpulse/internal/export"
	"courtpulse/internal/models"
	"courtpulse/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkerFixture(t *testing.T, redisClient *redis.Client) (*ReportWorker, *events.Bus) {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	court := models.Court{OwnerID: 10, Field: "North Arena", CourtType: "indoor", SlotMinutes: 60, PricePerSlot: 100, IsActive: true}
	require.NoError(t, db.CreateCourt(ctx, &court))

	start := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	booking := models.Booking{CourtID: court.ID, UserID: 100, StartTime: start, EndTime: start.Add(time.Hour), Status: models.StatusCompleted}
	require.NoError(t, db.CreateBooking(ctx, &booking))

	bus := events.NewBus()
	analyticsSvc := service.NewAnalyticsService(db, nil, bus, config.AnalyticsConfig{}, &logger)
	exporter := export.NewExporter(t.TempDir(), &logger)

	return NewReportWorker(analyticsSvc, exporter, redisClient, bus, RetryPolicy{MaxRetries: 1}, 10, &logger), bus
}

func monthlyTask(id string) models.ReportTask {
	return models.ReportTask{
		ID:          id,
		OwnerID:     10,
		PeriodMode:  "monthly",
		MonthIndex:  5,
		Year:        2025,
		RequestedAt: time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcessTaskSuccess(t *testing.T) {
	w, bus := newWorkerFixture(t, nil)
	ctx := context.Background()

	var ready []events.ReportEventPayload
	bus.Subscribe(events.EventReportReady, func(e *events.Event) error {
		var payload events.ReportEventPayload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return err
		}
		ready = append(ready, payload)
		return nil
	})

	require.NoError(t, w.Enqueue(ctx, monthlyTask("task-1")))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, task)

	require.Len(t, ready, 1)
	assert.Equal(t, "task-1", ready[0].TaskID)
	assert.Equal(t, int64(10), ready[0].OwnerID)
	assert.FileExists(t, ready[0].Path)
}

func TestEnqueueValidation(t *testing.T) {
	w, _ := newWorkerFixture(t, nil)
	ctx := context.Background()

	assert.Error(t, w.Enqueue(ctx, models.ReportTask{OwnerID: 10}))
	assert.Error(t, w.Enqueue(ctx, models.ReportTask{ID: "task-2"}))
}

func TestRedisQueue(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	w, _ := newWorkerFixture(t, client)
	ctx := context.Background()

	require.NoError(t, w.Enqueue(ctx, monthlyTask("task-3")))

	// task landed in redis, not the local queue
	_, ok := w.tryLocalQueue()
	assert.False(t, ok)

	task, ok := w.tryRedis(ctx)
	require.True(t, ok)
	assert.Equal(t, "task-3", task.ID)
}

func TestFailedTaskGoesToDeadLetter(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	w, _ := newWorkerFixture(t, client)
	ctx := context.Background()

	bad := monthlyTask("task-4")
	bad.PeriodMode = "weekly" // not a recognized period

	w.processTask(ctx, bad)

	n, err := client.LLen(ctx, reportDeadLetterKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 10*time.Second, policy.NextDelay(10)) // clamped

	// zero-valued policy still yields a sane delay
	assert.Equal(t, time.Second, RetryPolicy{}.NextDelay(0))
}
