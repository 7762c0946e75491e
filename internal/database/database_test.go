package database

import (
	"context"
	"testing"
	"time"

	"courtpulse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTestCourt(t *testing.T, db *DB, ownerID int64, field, courtType string) *models.Court {
	t.Helper()
	court := &models.Court{
		OwnerID:      ownerID,
		Field:        field,
		CourtType:    courtType,
		SlotMinutes:  60,
		PricePerSlot: 100,
		IsActive:     true,
	}
	require.NoError(t, db.CreateCourt(context.Background(), court))
	return court
}

func TestCreateAndFetchCourts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestCourt(t, db, 10, "Arena A", "futsal")
	createTestCourt(t, db, 10, "Arena B", "badminton")
	createTestCourt(t, db, 77, "Arena C", "futsal")

	all, err := db.FetchCourts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owned, err := db.FetchCourts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Arena A", owned[0].Field)
	assert.Equal(t, "Arena B", owned[1].Field)
}

func TestDeactivateCourtHidesIt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	court := createTestCourt(t, db, 10, "Arena A", "futsal")
	require.NoError(t, db.DeactivateCourt(ctx, court.ID))

	courts, err := db.FetchCourts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, courts)

	assert.ErrorIs(t, db.DeactivateCourt(ctx, 9999), ErrCourtNotFound)
}

func TestUpdateCourt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	court := createTestCourt(t, db, 10, "Arena A", "futsal")
	court.PricePerSlot = 150
	court.SlotMinutes = 30
	require.NoError(t, db.UpdateCourt(ctx, court))

	got, err := db.GetCourtByID(ctx, court.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.PricePerSlot)
	assert.Equal(t, 30, got.SlotMinutes)

	_, err = db.GetCourtByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCreateBookingNormalizesStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	court := createTestCourt(t, db, 10, "Arena A", "futsal")
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		CourtID:   court.ID,
		CourtName: court.Field,
		UserID:    1,
		UserName:  "Alice",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    "Approved",
	}
	require.NoError(t, db.CreateBooking(ctx, booking))
	assert.Equal(t, models.StatusCompleted, booking.Status)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "Alice", got.UserName)
}

func TestCreateBookingRejectsInvertedInterval(t *testing.T) {
	db := setupTestDB(t)
	court := createTestCourt(t, db, 10, "Arena A", "futsal")

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	err := db.CreateBooking(context.Background(), &models.Booking{
		CourtID:   court.ID,
		UserID:    1,
		StartTime: start,
		EndTime:   start, // end must be strictly after start
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFetchBookingsByCourtSet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := createTestCourt(t, db, 10, "Arena A", "futsal")
	b := createTestCourt(t, db, 10, "Arena B", "badminton")
	c := createTestCourt(t, db, 77, "Arena C", "futsal")

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	for i, court := range []*models.Court{a, b, c} {
		require.NoError(t, db.CreateBooking(ctx, &models.Booking{
			CourtID:   court.ID,
			CourtName: court.Field,
			UserID:    int64(i + 1),
			StartTime: start.Add(time.Duration(i) * time.Hour),
			EndTime:   start.Add(time.Duration(i+1) * time.Hour),
			Status:    models.StatusPending,
		}))
	}

	scoped, err := db.FetchBookings(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	all, err := db.FetchBookings(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Date-descending ordering.
	assert.True(t, all[0].StartTime.After(all[1].StartTime))
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	court := createTestCourt(t, db, 10, "Arena A", "futsal")
	june := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)

	for _, start := range []time.Time{june, july} {
		require.NoError(t, db.CreateBooking(ctx, &models.Booking{
			CourtID: court.ID, UserID: 1,
			StartTime: start, EndTime: start.Add(time.Hour),
		}))
	}

	got, err := db.GetBookingsByDateRange(ctx,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, june.Day(), got[0].StartTime.Day())
}

func TestUserLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{Name: "Bob", Phone: "123", IsOwner: true}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.True(t, got.IsOwner)

	require.NoError(t, db.UpdateUserActivity(ctx, user.ID))

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = db.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
