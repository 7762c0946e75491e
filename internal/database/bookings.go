package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtpulse/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if !booking.EndTime.After(booking.StartTime) {
		return ErrInvalidRange
	}

	query := `INSERT INTO bookings (
				court_id, court_name, user_id, user_name,
				start_time, end_time, status, comment, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	status := models.NormalizeStatus(booking.Status)
	if status == "" {
		status = models.StatusPending
	}

	result, err := db.db.ExecContext(ctx, query,
		booking.CourtID,
		booking.CourtName,
		booking.UserID,
		booking.UserName,
		booking.StartTime,
		booking.EndTime,
		status,
		booking.Comment,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Status = status
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := bookingSelect + ` WHERE id = ?`

	var booking models.Booking
	err := scanBooking(db.db.QueryRowContext(ctx, query, id), &booking)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	res, err := db.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		models.NormalizeStatus(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// FetchBookings returns bookings, optionally restricted to a set of
// court ids. Callers re-filter defensively, so an empty set means no
// restriction rather than no results.
func (db *DB) FetchBookings(ctx context.Context, courtIDs []int64) ([]models.Booking, error) {
	query := bookingSelect
	args := []any{}
	if len(courtIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(courtIDs)), ",")
		query += ` WHERE court_id IN (` + placeholders + `)`
		for _, id := range courtIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY start_time DESC`

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	query := bookingSelect + ` WHERE start_time >= ? AND start_time <= ? ORDER BY start_time DESC`
	return db.queryBookings(ctx, query, start, end)
}

func (db *DB) GetUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := bookingSelect + ` WHERE user_id = ? ORDER BY start_time DESC`
	return db.queryBookings(ctx, query, userID)
}

const bookingSelect = `SELECT id, court_id, court_name, user_id, user_name,
	start_time, end_time, status, comment, created_at, updated_at FROM bookings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, b *models.Booking) error {
	var comment sql.NullString
	err := row.Scan(
		&b.ID,
		&b.CourtID,
		&b.CourtName,
		&b.UserID,
		&b.UserName,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&comment,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	b.Comment = comment.String
	b.Status = models.NormalizeStatus(b.Status)
	return nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}
