package service

import (
	"errors"
	"math"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/cleanup"
	"github.com/carvanta/carvanta-backend/internal/storage"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCarNotFound         = errors.New("car not found")
	ErrCarMissingFields    = errors.New("missing required fields: name, brand, model, price, year")
	ErrCarInvalidPrice     = errors.New("price must not be negative")
	ErrCarInvalidYear      = errors.New("year must be a positive number")
	ErrCarInvalidCondition = errors.New("condition must be one of new, used, certified")
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

type CreateCarInput struct {
	Name         string
	Brand        string
	Model        string
	Year         int
	Price        float64
	KmDriven     int
	FuelType     string
	Transmission string
	OwnerCount   int
	Description  string
	Features     []string
	Condition    model.CarCondition
	IsFeatured   bool
}

// UpdateCarInput carries partial scalar edits; nil fields keep the
// current value. Image changes travel separately (DeletesImage + new
// uploads) because they go through reconciliation, not overwrite.
type UpdateCarInput struct {
	Name         *string
	Brand        *string
	Model        *string
	Year         *int
	Price        *float64
	KmDriven     *int
	FuelType     *string
	Transmission *string
	OwnerCount   *int
	Description  *string
	Features     []string
	Condition    *model.CarCondition
	IsFeatured   *bool
	DeletesImage []string
}

type CarListOptions struct {
	Query       string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	IncludeSold bool // admin views list sold cars too
	Page        int  // 1-indexed
	Limit       int
}

// CarPage is one page of listings plus the pagination envelope.
type CarPage struct {
	Cars       []model.Car `json:"cars"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

type CarService interface {
	CreateCar(input CreateCarInput, uploads []storage.Upload) (*model.Car, error)
	GetCarByID(id uint) (*model.Car, error)
	ListCars(opts CarListOptions) (*CarPage, error)
	UpdateCar(id uint, input UpdateCarInput, uploads []storage.Upload) (*model.Car, error)
	DeleteCar(id uint) error
}

type carService struct {
	carRepo repository.CarRepository
	store   storage.Store
	janitor *cleanup.Janitor
}

func NewCarService(carRepo repository.CarRepository, store storage.Store, janitor *cleanup.Janitor) CarService {
	return &carService{
		carRepo: carRepo,
		store:   store,
		janitor: janitor,
	}
}

func (s *carService) CreateCar(input CreateCarInput, uploads []storage.Upload) (*model.Car, error) {
	logger.Info("Creating new car listing", map[string]interface{}{
		"name":   input.Name,
		"brand":  input.Brand,
		"images": len(uploads),
	})

	if input.Name == "" || input.Brand == "" || input.Model == "" || input.Price == 0 || input.Year == 0 {
		return nil, ErrCarMissingFields
	}
	if input.Price < 0 {
		return nil, ErrCarInvalidPrice
	}
	if input.Year < 0 {
		return nil, ErrCarInvalidYear
	}
	if input.Condition == "" {
		input.Condition = model.ConditionUsed
	}
	switch input.Condition {
	case model.ConditionNew, model.ConditionUsed, model.ConditionCertified:
	default:
		return nil, ErrCarInvalidCondition
	}

	images, err := s.storeUploads(uploads)
	if err != nil {
		return nil, err
	}

	car := &model.Car{
		Name:         input.Name,
		Brand:        input.Brand,
		Model:        input.Model,
		Year:         input.Year,
		Price:        input.Price,
		KmDriven:     input.KmDriven,
		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		OwnerCount:   input.OwnerCount,
		Description:  input.Description,
		Features:     input.Features,
		Condition:    input.Condition,
		Images:       images,
		IsFeatured:   input.IsFeatured,
	}

	if err := s.carRepo.Create(car); err != nil {
		// The row never existed, so the stored files are orphans.
		s.janitor.Enqueue(images...)
		logger.Error("Failed to create car", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Car listing created", map[string]interface{}{
		"car_id": car.ID,
		"name":   car.Name,
	})
	return car, nil
}

// storeUploads validates every file before persisting any, then writes
// them in order. A mid-batch storage failure hands the already-written
// files to the janitor.
func (s *carService) storeUploads(uploads []storage.Upload) ([]string, error) {
	for _, upload := range uploads {
		if err := storage.ValidateContentType(upload.ContentType); err != nil {
			return nil, err
		}
	}

	var refs []string
	for _, upload := range uploads {
		ref, err := s.store.Save(storage.CategoryCars, upload)
		if err != nil {
			s.janitor.Enqueue(refs...)
			logger.Error("Failed to store car image", err, map[string]interface{}{
				"filename": upload.Filename,
			})
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *carService) GetCarByID(id uint) (*model.Car, error) {
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		logger.Error("Failed to fetch car", err, map[string]interface{}{
			"car_id": id,
		})
		return nil, err
	}

	if car.Visibility() == model.Removed {
		return nil, ErrCarNotFound
	}
	return car, nil
}

func (s *carService) ListCars(opts CarListOptions) (*CarPage, error) {
	page := opts.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	filter := repository.CarFilter{
		Query:       opts.Query,
		Brand:       opts.Brand,
		MinPrice:    opts.MinPrice,
		MaxPrice:    opts.MaxPrice,
		IncludeSold: opts.IncludeSold,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	cars, err := s.carRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	total, err := s.carRepo.Count(filter)
	if err != nil {
		return nil, err
	}

	result := &CarPage{
		Cars:       cars,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}

	logger.Info("Cars listed", map[string]interface{}{
		"count":       len(cars),
		"total":       total,
		"page":        page,
		"total_pages": result.TotalPages,
	})
	return result, nil
}

// UpdateCar applies scalar edits and reconciles the image set: survivors
// of the delete list stay in order, new uploads append after them. The
// row is updated before any file is removed, so a crash mid-way leaves
// orphaned files rather than dangling references.
func (s *carService) UpdateCar(id uint, input UpdateCarInput, uploads []storage.Upload) (*model.Car, error) {
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	kept, removed := reconcileImages(car.Images, input.DeletesImage)

	newRefs, err := s.storeUploads(uploads)
	if err != nil {
		return nil, err
	}

	applyCarUpdates(car, input)
	car.Images = append(kept, newRefs...)

	if err := s.carRepo.Update(car); err != nil {
		// Keep the old refs; only the fresh uploads are orphans now.
		s.janitor.Enqueue(newRefs...)
		return nil, err
	}

	// Best-effort cleanup after the row is committed.
	s.janitor.Enqueue(removed...)

	logger.Info("Car listing updated", map[string]interface{}{
		"car_id":         car.ID,
		"images_kept":    len(kept),
		"images_added":   len(newRefs),
		"images_removed": len(removed),
	})
	return car, nil
}

// reconcileImages partitions current into survivors and removals by set
// membership in deletes. Delete targets that are not current images are
// ignored.
func reconcileImages(current []string, deletes []string) (kept []string, removed []string) {
	deleteSet := make(map[string]struct{}, len(deletes))
	for _, ref := range deletes {
		deleteSet[ref] = struct{}{}
	}

	for _, ref := range current {
		if _, ok := deleteSet[ref]; ok {
			removed = append(removed, ref)
		} else {
			kept = append(kept, ref)
		}
	}
	return kept, removed
}

func applyCarUpdates(car *model.Car, input UpdateCarInput) {
	if input.Name != nil {
		car.Name = *input.Name
	}
	if input.Brand != nil {
		car.Brand = *input.Brand
	}
	if input.Model != nil {
		car.Model = *input.Model
	}
	if input.Year != nil {
		car.Year = *input.Year
	}
	if input.Price != nil {
		car.Price = *input.Price
	}
	if input.KmDriven != nil {
		car.KmDriven = *input.KmDriven
	}
	if input.FuelType != nil {
		car.FuelType = *input.FuelType
	}
	if input.Transmission != nil {
		car.Transmission = *input.Transmission
	}
	if input.OwnerCount != nil {
		car.OwnerCount = *input.OwnerCount
	}
	if input.Description != nil {
		car.Description = *input.Description
	}
	if input.Features != nil {
		car.Features = input.Features
	}
	if input.Condition != nil {
		car.Condition = *input.Condition
	}
	if input.IsFeatured != nil {
		car.IsFeatured = *input.IsFeatured
	}
}

// DeleteCar hides the listing. Images and any sale record stay put; a
// sold car remains queryable through the admin sold list.
func (s *carService) DeleteCar(id uint) error {
	found, err := s.carRepo.SoftDelete(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCarNotFound
	}

	logger.Info("Car listing soft deleted", map[string]interface{}{
		"car_id": id,
	})
	return nil
}
