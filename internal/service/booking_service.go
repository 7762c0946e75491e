package service

import (
	"context"
	"time"

	"courtpulse/internal/database"
	"courtpulse/internal/domain"
	"courtpulse/internal/events"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

// BookingService handles booking writes and keeps the analytics snapshot
// cache coherent: every successful write invalidates the owning court's
// owner snapshot.
type BookingService struct {
	store     domain.Store
	analytics *AnalyticsService
	users     *UserService
	eventBus  domain.EventPublisher
	logger    *zerolog.Logger
}

func NewBookingService(store domain.Store, analytics *AnalyticsService, users *UserService, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:     store,
		analytics: analytics,
		users:     users,
		eventBus:  eventBus,
		logger:    logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if !booking.EndTime.After(booking.StartTime) {
		return database.ErrInvalidRange
	}

	court, err := s.store.GetCourtByID(ctx, booking.CourtID)
	if err != nil {
		return err
	}
	if booking.CourtName == "" {
		booking.CourtName = court.Field
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return err
	}

	s.saveCustomer(ctx, booking)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("court_id", booking.CourtID).
		Float64("hours", s.DurationHours(*booking)).
		Msg("booking created")

	s.publishEvent(events.EventBookingCreated, *booking)
	s.invalidateOwner(ctx, court.OwnerID)
	return nil
}

// saveCustomer records the booking customer: the first booking creates
// the user row, repeat bookings bump activity. A failure here never
// fails the booking itself.
func (s *BookingService) saveCustomer(ctx context.Context, booking *models.Booking) {
	if s.users == nil || booking.UserID == 0 {
		return
	}

	user := &models.User{
		ID:           booking.UserID,
		Name:         booking.UserName,
		LastActivity: time.Now(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", booking.UserID).Msg("save customer error")
	}
}

func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error {
	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err == nil {
		s.publishEvent(events.EventBookingStatusChanged, *booking)
		if court, cerr := s.store.GetCourtByID(ctx, booking.CourtID); cerr == nil {
			s.invalidateOwner(ctx, court.OwnerID)
		}
	}

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.store.GetUserBookings(ctx, userID)
}

// DurationHours is a convenience for listings; equals the booked minutes
// divided by 60.
func (s *BookingService) DurationHours(booking models.Booking) float64 {
	return booking.EndTime.Sub(booking.StartTime).Hours()
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		CourtID:   booking.CourtID,
		CourtName: booking.CourtName,
		UserID:    booking.UserID,
		Status:    booking.Status,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) invalidateOwner(ctx context.Context, ownerID int64) {
	if s.analytics == nil {
		return
	}
	// keep the invalidation off the caller's deadline
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	s.analytics.Invalidate(invCtx, ownerID)
}
