package service

import (
	"context"
	"errors"

	"courtpulse/internal/database"
	"courtpulse/internal/domain"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// SaveUser creates the user on first contact and bumps activity on
// repeat visits.
func (s *UserService) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.store.GetUserByID(ctx, user.ID)
	switch {
	case err == nil:
		return s.store.UpdateUserActivity(ctx, user.ID)
	case errors.Is(err, database.ErrUserNotFound):
		return s.store.CreateUser(ctx, user)
	default:
		return err
	}
}

func (s *UserService) UpdateUserActivity(ctx context.Context, userID int64) error {
	return s.store.UpdateUserActivity(ctx, userID)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetAllUsers(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
