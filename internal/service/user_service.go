package service

import (
	"context"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
)

// UserService answers reputation queries. Users are created implicitly by
// resolution, so an unknown address is simply reputation zero.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, address string) (*models.User, error) {
	user, err := s.userRepo.FindByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &models.User{Address: address, Reputation: 0}, nil
	}
	return user, nil
}
