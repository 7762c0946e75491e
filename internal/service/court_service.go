package service

import (
	"context"
	"fmt"
	"sync"

	"courtpulse/internal/domain"
	"courtpulse/internal/events"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

// CourtService keeps the active-court catalog in memory and refreshes it
// from the store after every write. The catalog is what the analytics
// engine resolves bookings against.
type CourtService struct {
	store     domain.Store
	analytics *AnalyticsService
	eventBus  domain.EventPublisher
	logger    *zerolog.Logger
	courts    []models.Court
	courtsMap map[int64]models.Court
	mu        sync.RWMutex
}

func NewCourtService(store domain.Store, analytics *AnalyticsService, eventBus domain.EventPublisher, courts []models.Court, logger *zerolog.Logger) *CourtService {
	courtsMap := make(map[int64]models.Court)
	for _, court := range courts {
		courtsMap[court.ID] = court
	}

	return &CourtService{
		store:     store,
		analytics: analytics,
		eventBus:  eventBus,
		logger:    logger,
		courts:    courts,
		courtsMap: courtsMap,
	}
}

func (s *CourtService) GetActiveCourts(ctx context.Context) ([]models.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courts, nil
}

func (s *CourtService) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	court, ok := s.courtsMap[id]
	if !ok {
		return nil, fmt.Errorf("court not found: %d", id)
	}
	return &court, nil
}

func (s *CourtService) GetCourtsByOwner(ctx context.Context, ownerID int64) ([]models.Court, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []models.Court
	for _, court := range s.courts {
		if court.OwnerID == ownerID {
			owned = append(owned, court)
		}
	}
	return owned, nil
}

func (s *CourtService) CreateCourt(ctx context.Context, court *models.Court) error {
	err := s.store.CreateCourt(ctx, court)
	if err != nil {
		return err
	}
	s.invalidate(ctx, court.OwnerID)
	return s.Refresh(ctx)
}

func (s *CourtService) UpdateCourt(ctx context.Context, court *models.Court) error {
	err := s.store.UpdateCourt(ctx, court)
	if err != nil {
		return err
	}
	s.invalidate(ctx, court.OwnerID)
	return s.Refresh(ctx)
}

func (s *CourtService) DeactivateCourt(ctx context.Context, id int64) error {
	court, err := s.GetCourtByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeactivateCourt(ctx, id); err != nil {
		return err
	}

	if s.eventBus != nil {
		if perr := s.eventBus.PublishJSON(events.EventCourtDeactivated, court); perr != nil {
			s.logger.Error().Err(perr).Int64("court_id", id).Msg("publish event error")
		}
	}

	s.invalidate(ctx, court.OwnerID)
	return s.Refresh(ctx)
}

func (s *CourtService) Refresh(ctx context.Context) error {
	courts, err := s.store.FetchCourts(ctx, 0)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courts = courts
	s.courtsMap = make(map[int64]models.Court)
	for _, court := range courts {
		s.courtsMap[court.ID] = court
	}
	return nil
}

func (s *CourtService) invalidate(ctx context.Context, ownerID int64) {
	if s.analytics != nil && ownerID > 0 {
		s.analytics.Invalidate(ctx, ownerID)
	}
}
