package services

import (
	"context"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"go.uber.org/zap"
)

// UserService handles admin moderation of user accounts.
type UserService struct {
	repo   repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangeRole sets the role of a user. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actor models.Actor, id uint, raw string) (*models.User, error) {
	role, err := models.ParseRole(raw)
	if err != nil {
		return nil, errs.Validation("role", err)
	}
	if actor.ID == id {
		return nil, errs.Forbidden("admins cannot change their own role")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	s.logger.Info("User role changed",
		zap.Uint("user_id", id),
		zap.String("role", string(role)),
		zap.Uint("actor_id", actor.ID))
	return s.repo.GetByID(ctx, id)
}

// DeleteUser deactivates an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id uint) error {
	if actor.ID == id {
		return errs.Forbidden("admins cannot delete their own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.Uint("user_id", id), zap.Uint("actor_id", actor.ID))
	return nil
}
