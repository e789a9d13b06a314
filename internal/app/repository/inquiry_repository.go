package repository

import (
	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"gorm.io/gorm"
)

type InquiryRepository interface {
	Create(inquiry *model.Inquiry) error
	FindByID(id uint) (*model.Inquiry, error)
	FindByUserID(userID uint) ([]model.Inquiry, error)
	FindAll() ([]model.Inquiry, error)
	UpdateStatus(id uint, status model.InquiryStatus) (bool, error)
}

type inquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(inquiry *model.Inquiry) error {
	if err := r.db.Create(inquiry).Error; err != nil {
		logger.Error("Failed to create inquiry in database", err, map[string]interface{}{
			"car_id": inquiry.CarID,
		})
		return err
	}
	return nil
}

func (r *inquiryRepository) FindByID(id uint) (*model.Inquiry, error) {
	var inquiry model.Inquiry
	if err := r.db.Preload("Car").First(&inquiry, id).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) FindByUserID(userID uint) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	err := r.db.Preload("Car").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&inquiries).Error
	if err != nil {
		logger.Error("Failed to list user inquiries", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepository) FindAll() ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	err := r.db.Preload("Car").Preload("User").
		Order("created_at DESC").
		Find(&inquiries).Error
	if err != nil {
		logger.Error("Failed to list inquiries", err, nil)
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepository) UpdateStatus(id uint, status model.InquiryStatus) (bool, error) {
	result := r.db.Model(&model.Inquiry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update inquiry status", result.Error, map[string]interface{}{
			"inquiry_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
