package service

import (
	"context"
	"time"

	"courtpulse/internal/analytics"
	"courtpulse/internal/config"
	"courtpulse/internal/domain"
	"courtpulse/internal/events"
	"courtpulse/internal/metrics"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

// AnalyticsService answers revenue-dashboard queries for one owner at a
// time. It fetches the raw snapshot (cache first, store on miss) and
// hands everything else to the pure analytics engine.
type AnalyticsService struct {
	store    domain.Store
	cache    domain.SnapshotCache
	eventBus domain.EventPublisher
	settings config.AnalyticsConfig
	logger   *zerolog.Logger
}

func NewAnalyticsService(store domain.Store, cache domain.SnapshotCache, eventBus domain.EventPublisher, settings config.AnalyticsConfig, logger *zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:    store,
		cache:    cache,
		eventBus: eventBus,
		settings: settings,
		logger:   logger,
	}
}

// withSettings fills query defaults from the deployment config. Explicit
// request values always win; a zero config falls through to the engine
// defaults.
func (s *AnalyticsService) withSettings(opts analytics.Options) analytics.Options {
	if opts.PageSize == 0 {
		opts.PageSize = s.settings.PageSize
	}
	if opts.OpenHour == 0 && opts.CloseHour == 0 {
		opts.OpenHour = s.settings.OpenHour
		opts.CloseHour = s.settings.CloseHour
	}
	return opts
}

// Snapshot returns the owner's raw booking/court collections, consulting
// the cache first. Cache failures degrade to the store, never to an error.
func (s *AnalyticsService) Snapshot(ctx context.Context, ownerID int64) (*models.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, ownerID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("snapshot cache read error")
		} else if snap != nil {
			return snap, nil
		}
	}

	courts, err := s.store.FetchCourts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if len(courts) > 0 {
		ids := make([]int64, 0, len(courts))
		for _, c := range courts {
			ids = append(ids, c.ID)
		}
		bookings, err = s.store.FetchBookings(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	snap := &models.Snapshot{
		Bookings:  bookings,
		Courts:    courts,
		FetchedAt: time.Now().Unix(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, snap); err != nil {
			s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("snapshot cache write error")
		}
	}

	return snap, nil
}

// Invalidate drops the owner's cached snapshot after a write.
func (s *AnalyticsService) Invalidate(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("snapshot invalidate error")
	}
}

// BucketSeries returns booking counts per chart bucket.
func (s *AnalyticsService) BucketSeries(ctx context.Context, ownerID int64, opts analytics.Options) ([]models.Bucket, error) {
	metrics.IncQuery("bucket_series")
	opts = s.withSettings(opts)

	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	engine := analytics.New(snap.Courts, ownerID, s.logger)
	series, quality, err := engine.BucketSeries(snap.Bookings, opts)
	if err != nil {
		return nil, err
	}
	s.reportQuality(ownerID, "bucket_series", quality)
	return series, nil
}

// PeriodMetrics returns the four current-vs-previous comparison cards.
func (s *AnalyticsService) PeriodMetrics(ctx context.Context, ownerID int64, opts analytics.Options) ([]models.MetricCard, error) {
	metrics.IncQuery("period_metrics")
	opts = s.withSettings(opts)

	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	engine := analytics.New(snap.Courts, ownerID, s.logger)
	cards, quality, err := engine.PeriodMetrics(snap.Bookings, opts)
	if err != nil {
		return nil, err
	}
	s.reportQuality(ownerID, "period_metrics", quality)
	return cards, nil
}

// ProportionSeries returns the revenue-share breakdown.
func (s *AnalyticsService) ProportionSeries(ctx context.Context, ownerID int64, opts analytics.Options) ([]models.ProportionSlice, error) {
	metrics.IncQuery("proportion_series")
	opts = s.withSettings(opts)

	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	engine := analytics.New(snap.Courts, ownerID, s.logger)
	slices, quality, err := engine.ProportionSeries(snap.Bookings, opts)
	if err != nil {
		return nil, err
	}
	s.reportQuality(ownerID, "proportion_series", quality)
	return slices, nil
}

// HistoryPage returns one page of the date-descending booking history.
func (s *AnalyticsService) HistoryPage(ctx context.Context, ownerID int64, opts analytics.Options) (models.HistoryPage, error) {
	metrics.IncQuery("history_page")
	opts = s.withSettings(opts)

	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return models.HistoryPage{}, err
	}

	engine := analytics.New(snap.Courts, ownerID, s.logger)
	page, quality, err := engine.HistoryPage(snap.Bookings, opts)
	if err != nil {
		return models.HistoryPage{}, err
	}
	s.reportQuality(ownerID, "history_page", quality)
	return page, nil
}

func (s *AnalyticsService) reportQuality(ownerID int64, query string, q analytics.Quality) {
	if q.Total() == 0 {
		return
	}

	metrics.AddQuality("unresolved_court", q.UnresolvedCourt)
	metrics.AddQuality("incomplete_config", q.IncompleteConfig)
	metrics.AddQuality("invalid_range", q.InvalidRange)

	if s.eventBus == nil {
		return
	}
	payload := events.QualityEventPayload{
		OwnerID:          ownerID,
		Query:            query,
		UnresolvedCourt:  q.UnresolvedCourt,
		IncompleteConfig: q.IncompleteConfig,
		InvalidRange:     q.InvalidRange,
	}
	if err := s.eventBus.PublishJSON(events.EventDataQuality, payload); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("publish quality event error")
	}
}
