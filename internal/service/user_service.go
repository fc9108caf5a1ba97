package service

import (
	"context"

	"github.com/spendsight/backend/internal/model"
)

// UserRepositoryInterface defines the user directory contract.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type UserService struct {
	userRepo UserRepositoryInterface
}

func NewUserService(userRepo UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
