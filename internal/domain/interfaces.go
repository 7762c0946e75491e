package domain

import (
	"context"

	"courtpulse/internal/models"
)

// Store is the persistence layer behind the analytics snapshot. The
// engine itself never touches it; services fetch the raw collections
// here and hand them over.
type Store interface {
	FetchCourts(ctx context.Context, ownerID int64) ([]models.Court, error)
	FetchBookings(ctx context.Context, courtIDs []int64) ([]models.Booking, error)

	CreateCourt(ctx context.Context, court *models.Court) error
	GetCourtByID(ctx context.Context, id int64) (*models.Court, error)
	UpdateCourt(ctx context.Context, court *models.Court) error
	DeactivateCourt(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	GetUserBookings(ctx context.Context, userID int64) ([]models.Booking, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUserActivity(ctx context.Context, id int64) error
}

// SnapshotCache caches the raw booking/court collections per owner.
// Computed aggregates are never cached; they are recomputed per request.
// A (nil, nil) return is a cache miss.
type SnapshotCache interface {
	Get(ctx context.Context, ownerID int64) (*models.Snapshot, error)
	Set(ctx context.Context, ownerID int64, snapshot *models.Snapshot) error
	Invalidate(ctx context.Context, ownerID int64) error
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReportScheduler hands report generation off to the background worker.
type ReportScheduler interface {
	Enqueue(ctx context.Context, task models.ReportTask) error
}
