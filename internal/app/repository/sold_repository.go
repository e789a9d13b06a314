package repository

import (
	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"gorm.io/gorm"
)

type SoldRepository interface {
	FindAll() ([]model.Sold, error)
	FindByCarID(carID uint) (*model.Sold, error)
	Count() (int64, error)
	AllProofRefs() ([]string, error)
}

type soldRepository struct {
	db *gorm.DB
}

func NewSoldRepository(db *gorm.DB) SoldRepository {
	return &soldRepository{db: db}
}

// FindAll returns every sale with its car resolved inline, newest sale first.
func (r *soldRepository) FindAll() ([]model.Sold, error) {
	var records []model.Sold
	err := r.db.Preload("Car").Order("sold_date DESC, id DESC").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list sold records", err, nil)
		return nil, err
	}

	logger.Debug("Sold records listed", map[string]interface{}{
		"count": len(records),
	})
	return records, nil
}

func (r *soldRepository) FindByCarID(carID uint) (*model.Sold, error) {
	var record model.Sold
	if err := r.db.Where("car_id = ?", carID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *soldRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.Sold{}).Count(&total).Error
	return total, err
}

// AllProofRefs returns every id-proof image reference. Used by the
// orphan sweep.
func (r *soldRepository) AllProofRefs() ([]string, error) {
	var records []model.Sold
	if err := r.db.Select("buyer_id_proof_images").Find(&records).Error; err != nil {
		return nil, err
	}

	var refs []string
	for _, record := range records {
		refs = append(refs, record.Buyer.IDProof.Images...)
	}
	return refs, nil
}
