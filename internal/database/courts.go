package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"courtpulse/internal/models"
)

func (db *DB) CreateCourt(ctx context.Context, court *models.Court) error {
	query := `INSERT INTO courts (
				owner_id, field, court_type, slot_minutes, price_per_slot,
				is_active, sort_order, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		court.OwnerID,
		court.Field,
		court.CourtType,
		court.SlotMinutes,
		court.PricePerSlot,
		court.IsActive,
		court.SortOrder,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create court: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	court.ID = id
	court.CreatedAt = now
	court.UpdatedAt = now
	return nil
}

func (db *DB) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	query := `SELECT id, owner_id, field, court_type, slot_minutes, price_per_slot,
	                 is_active, sort_order, created_at, updated_at
	          FROM courts WHERE id = ?`

	var court models.Court
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&court.ID,
		&court.OwnerID,
		&court.Field,
		&court.CourtType,
		&court.SlotMinutes,
		&court.PricePerSlot,
		&court.IsActive,
		&court.SortOrder,
		&court.CreatedAt,
		&court.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get court: %w", err)
	}
	return &court, nil
}

// FetchCourts returns active court records, optionally scoped to one
// owner. ownerID <= 0 means all owners.
func (db *DB) FetchCourts(ctx context.Context, ownerID int64) ([]models.Court, error) {
	query := `SELECT id, owner_id, field, court_type, slot_minutes, price_per_slot,
	                 is_active, sort_order, created_at, updated_at
	          FROM courts WHERE is_active = 1`
	args := []any{}
	if ownerID > 0 {
		query += ` AND owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY sort_order, id`

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courts: %w", err)
	}
	defer rows.Close()

	courts := []models.Court{}
	for rows.Next() {
		var court models.Court
		if err := rows.Scan(
			&court.ID,
			&court.OwnerID,
			&court.Field,
			&court.CourtType,
			&court.SlotMinutes,
			&court.PricePerSlot,
			&court.IsActive,
			&court.SortOrder,
			&court.CreatedAt,
			&court.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan court: %w", err)
		}
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch courts: %w", err)
	}
	return courts, nil
}

func (db *DB) UpdateCourt(ctx context.Context, court *models.Court) error {
	query := `UPDATE courts SET
				field = ?, court_type = ?, slot_minutes = ?, price_per_slot = ?,
				sort_order = ?, updated_at = ?
	          WHERE id = ?`
	res, err := db.db.ExecContext(ctx, query,
		court.Field,
		court.CourtType,
		court.SlotMinutes,
		court.PricePerSlot,
		court.SortOrder,
		time.Now(),
		court.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update court: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourtNotFound
	}
	return nil
}

func (db *DB) DeactivateCourt(ctx context.Context, id int64) error {
	res, err := db.db.ExecContext(ctx,
		`UPDATE courts SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate court: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourtNotFound
	}
	return nil
}
