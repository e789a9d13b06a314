package service

import (
	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	UsersCount int64 `json:"users_count"` // admins excluded
	CarsCount  int64 `json:"cars_count"`  // non-deleted cars
	SoldCount  int64 `json:"sold_count"`
}

type AdminService interface {
	GetStats() (*DashboardStats, error)
	ListUsers() ([]model.User, error)
	SetUserBlocked(id uint, blocked bool) (*model.User, error)
}

type adminService struct {
	userRepo repository.UserRepository
	carRepo  repository.CarRepository
	soldRepo repository.SoldRepository
}

func NewAdminService(userRepo repository.UserRepository, carRepo repository.CarRepository, soldRepo repository.SoldRepository) AdminService {
	return &adminService{
		userRepo: userRepo,
		carRepo:  carRepo,
		soldRepo: soldRepo,
	}
}

func (s *adminService) GetStats() (*DashboardStats, error) {
	users, err := s.userRepo.CountByRole(model.RoleUser)
	if err != nil {
		return nil, err
	}
	cars, err := s.carRepo.CountActive()
	if err != nil {
		return nil, err
	}
	sold, err := s.soldRepo.Count()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		UsersCount: users,
		CarsCount:  cars,
		SoldCount:  sold,
	}, nil
}

func (s *adminService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindByRole(model.RoleUser)
}

func (s *adminService) SetUserBlocked(id uint, blocked bool) (*model.User, error) {
	found, err := s.userRepo.SetBlocked(id, blocked)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}

	logger.Info("User block flag updated", map[string]interface{}{
		"user_id": id,
		"blocked": blocked,
	})
	return s.userRepo.FindByID(id)
}
