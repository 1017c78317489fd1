package service

import (
	"context"
	"fmt"

	"bookreview/internal/common"
	"bookreview/internal/domain/model"
	"bookreview/internal/domain/repository"
)

// UserService covers the admin-side user management.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete removes a user. The acting admin cannot delete itself.
func (s *UserService) Delete(ctx context.Context, actor *model.User, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return common.Errorf("cannot delete your own account: %w", common.ErrBadRequest)
	}
	return s.userRepo.Delete(ctx, user.ID)
}
