package repository

import (
	"fmt"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"gorm.io/gorm"
)

// CarFilter narrows listing queries. Deleted cars are always excluded;
// sold cars are excluded unless IncludeSold is set (admin views).
type CarFilter struct {
	Query       string   // free-text match on name/brand/model/description
	Brand       string   // exact brand
	MinPrice    *float64 // inclusive
	MaxPrice    *float64 // inclusive
	IncludeSold bool
	Limit       int
	Offset      int
}

type CarRepository interface {
	Create(car *model.Car) error
	BulkCreate(cars []model.Car, batchSize int) error
	FindByID(id uint) (*model.Car, error)
	FindWithFilter(filter CarFilter) ([]model.Car, error)
	Count(filter CarFilter) (int64, error)
	Update(car *model.Car) error
	SoftDelete(id uint) (bool, error)
	CountActive() (int64, error)
	AllImageRefs() ([]string, error)
}

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(car *model.Car) error {
	logger.Debug("Creating car in database", map[string]interface{}{
		"name":  car.Name,
		"brand": car.Brand,
	})

	if err := r.db.Create(car).Error; err != nil {
		logger.Error("Failed to create car in database", err, map[string]interface{}{
			"name":  car.Name,
			"brand": car.Brand,
		})
		return err
	}

	logger.Debug("Car created in database", map[string]interface{}{
		"car_id": car.ID,
		"name":   car.Name,
	})
	return nil
}

// BulkCreate imports listings in batches, used by the seeder.
func (r *carRepository) BulkCreate(cars []model.Car, batchSize int) error {
	if len(cars) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return r.db.CreateInBatches(cars, batchSize).Error
}

// FindByID returns the row regardless of isDeleted/isSold; visibility
// rules live in the service layer.
func (r *carRepository) FindByID(id uint) (*model.Car, error) {
	var car model.Car
	if err := r.db.First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) filtered(filter CarFilter) *gorm.DB {
	query := r.db.Model(&model.Car{}).Where("is_deleted = ?", false)

	if !filter.IncludeSold {
		query = query.Where("is_sold = ?", false)
	}

	if filter.Query != "" {
		like := fmt.Sprintf("%%%s%%", filter.Query)
		query = query.Where(
			"name LIKE ? OR brand LIKE ? OR model LIKE ? OR description LIKE ?",
			like, like, like, like,
		)
	}

	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}

	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	return query
}

func (r *carRepository) FindWithFilter(filter CarFilter) ([]model.Car, error) {
	logger.Debug("Finding cars with filter", map[string]interface{}{
		"query":        filter.Query,
		"brand":        filter.Brand,
		"min_price":    filter.MinPrice,
		"max_price":    filter.MaxPrice,
		"include_sold": filter.IncludeSold,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.filtered(filter).Order("created_at DESC, id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var cars []model.Car
	if err := query.Find(&cars).Error; err != nil {
		logger.Error("Failed to find cars with filter", err, map[string]interface{}{
			"query": filter.Query,
			"brand": filter.Brand,
		})
		return nil, err
	}

	logger.Debug("Cars found with filter", map[string]interface{}{
		"count": len(cars),
	})
	return cars, nil
}

// Count returns the number of matching rows ignoring pagination.
func (r *carRepository) Count(filter CarFilter) (int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count cars", err, nil)
		return 0, err
	}
	return total, nil
}

func (r *carRepository) Update(car *model.Car) error {
	logger.Debug("Updating car in database", map[string]interface{}{
		"car_id": car.ID,
		"name":   car.Name,
	})

	if err := r.db.Save(car).Error; err != nil {
		logger.Error("Failed to update car in database", err, map[string]interface{}{
			"car_id": car.ID,
		})
		return err
	}
	return nil
}

// SoftDelete flags the car hidden. The row, its images and any sale
// record are untouched. Returns false when the id does not exist.
func (r *carRepository) SoftDelete(id uint) (bool, error) {
	result := r.db.Model(&model.Car{}).Where("id = ?", id).Update("is_deleted", true)
	if result.Error != nil {
		logger.Error("Failed to soft delete car", result.Error, map[string]interface{}{
			"car_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountActive counts non-deleted cars for the admin dashboard.
func (r *carRepository) CountActive() (int64, error) {
	var total int64
	err := r.db.Model(&model.Car{}).Where("is_deleted = ?", false).Count(&total).Error
	return total, err
}

// AllImageRefs returns every image reference held by any car row,
// deleted and sold rows included. Used by the orphan sweep.
func (r *carRepository) AllImageRefs() ([]string, error) {
	var cars []model.Car
	if err := r.db.Select("images").Find(&cars).Error; err != nil {
		return nil, err
	}

	var refs []string
	for _, car := range cars {
		refs = append(refs, car.Images...)
	}
	return refs, nil
}
