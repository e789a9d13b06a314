package service

import (
	"errors"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInquiryNotFound      = errors.New("inquiry not found")
	ErrInquiryMissingFields = errors.New("missing required fields: car, name, phone")
	ErrInquiryInvalidStatus = errors.New("status must be one of pending, viewed, contacted")
)

// InquiryNotifier receives new inquiries for live delivery to admin
// clients. Implementations must not block.
type InquiryNotifier interface {
	NotifyNewInquiry(inquiry *model.Inquiry)
}

type CreateInquiryInput struct {
	UserID  *uint // nil for guests
	CarID   uint
	Name    string
	Email   string
	Phone   string
	Message string
}

type InquiryService interface {
	CreateInquiry(input CreateInquiryInput) (*model.Inquiry, error)
	ListUserInquiries(userID uint) ([]model.Inquiry, error)
	ListAllInquiries() ([]model.Inquiry, error)
	UpdateStatus(id uint, status model.InquiryStatus) error
}

type inquiryService struct {
	inquiryRepo repository.InquiryRepository
	carRepo     repository.CarRepository
	notifier    InquiryNotifier // optional
}

func NewInquiryService(inquiryRepo repository.InquiryRepository, carRepo repository.CarRepository, notifier InquiryNotifier) InquiryService {
	return &inquiryService{
		inquiryRepo: inquiryRepo,
		carRepo:     carRepo,
		notifier:    notifier,
	}
}

func (s *inquiryService) CreateInquiry(input CreateInquiryInput) (*model.Inquiry, error) {
	if input.CarID == 0 || input.Name == "" || input.Phone == "" {
		return nil, ErrInquiryMissingFields
	}

	car, err := s.carRepo.FindByID(input.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if car.Visibility() == model.Removed {
		return nil, ErrCarNotFound
	}

	inquiry := &model.Inquiry{
		UserID:  input.UserID,
		CarID:   input.CarID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
		Status:  model.InquiryPending,
	}
	if err := s.inquiryRepo.Create(inquiry); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewInquiry(inquiry)
	}

	logger.Info("Inquiry created", map[string]interface{}{
		"inquiry_id": inquiry.ID,
		"car_id":     inquiry.CarID,
	})
	return inquiry, nil
}

func (s *inquiryService) ListUserInquiries(userID uint) ([]model.Inquiry, error) {
	return s.inquiryRepo.FindByUserID(userID)
}

func (s *inquiryService) ListAllInquiries() ([]model.Inquiry, error) {
	return s.inquiryRepo.FindAll()
}

func (s *inquiryService) UpdateStatus(id uint, status model.InquiryStatus) error {
	if !status.Valid() {
		return ErrInquiryInvalidStatus
	}

	found, err := s.inquiryRepo.UpdateStatus(id, status)
	if err != nil {
		return err
	}
	if !found {
		return ErrInquiryNotFound
	}

	logger.Info("Inquiry status updated", map[string]interface{}{
		"inquiry_id": id,
		"status":     status,
	})
	return nil
}
