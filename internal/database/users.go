package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"courtpulse/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	lastActivity := user.LastActivity
	if lastActivity.IsZero() {
		lastActivity = time.Now()
	}
	now := time.Now()

	result, err := db.db.ExecContext(ctx,
		`INSERT INTO users (name, phone, is_owner, last_activity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Phone, user.IsOwner, lastActivity, now, now)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.LastActivity = lastActivity
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := db.db.QueryRowContext(ctx,
		`SELECT id, name, phone, is_owner, last_activity, created_at, updated_at
		 FROM users WHERE id = ?`, id).Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.IsOwner,
		&user.LastActivity,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) UpdateUserActivity(ctx context.Context, id int64) error {
	now := time.Now()
	_, err := db.db.ExecContext(ctx,
		`UPDATE users SET last_activity = ?, updated_at = ? WHERE id = ?`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to update user activity: %w", err)
	}
	return nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT id, name, phone, is_owner, last_activity, created_at, updated_at
		 FROM users ORDER BY last_activity DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Phone,
			&user.IsOwner,
			&user.LastActivity,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}
