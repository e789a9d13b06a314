package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/cleanup"
	"github.com/carvanta/carvanta-backend/internal/storage"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrCarAlreadySold      = errors.New("car is already sold")
	ErrSaleMissingFields   = errors.New("missing required fields: car, sold price, payment mode, buyer")
	ErrInvalidMobileNumber = errors.New("buyer mobile number must be a valid 10-digit Indian number")
	ErrInvalidPincode      = errors.New("buyer pincode must be a 6-digit number")
	ErrInvalidPaymentMode  = errors.New("payment mode must be one of Cash, UPI, Bank Transfer, Cheque")
	ErrInvalidIDProofType  = errors.New("id proof type must be one of Aadhar, PAN, Driving License, Passport")
	ErrProofImageCount     = errors.New("exactly one id proof image is required")
)

type BuyerInput struct {
	FullName     string
	MobileNumber string
	Email        string
	Address      model.BuyerAddress
	ProofType    model.IDProofType
	ProofNumber  string
}

type CreateSaleInput struct {
	CarID       uint
	SoldPrice   float64
	PaymentMode model.PaymentMode
	Remarks     string
	SoldDate    *time.Time // defaults to now
	Buyer       BuyerInput
}

type SaleService interface {
	CreateSale(input CreateSaleInput, proofUploads []storage.Upload) (*model.Sold, error)
	ListSales() ([]model.Sold, error)
	ExportSales() (*excelize.File, error)
}

// MobileValidator reports whether a string is an acceptable buyer
// mobile number.
type MobileValidator func(string) bool

type saleService struct {
	soldRepo     repository.SoldRepository
	carRepo      repository.CarRepository
	store        storage.Store
	janitor      *cleanup.Janitor
	db           *gorm.DB
	validMobile  MobileValidator
	validPincode MobileValidator
}

func NewSaleService(
	soldRepo repository.SoldRepository,
	carRepo repository.CarRepository,
	store storage.Store,
	janitor *cleanup.Janitor,
	db *gorm.DB,
	validMobile, validPincode MobileValidator,
) SaleService {
	return &saleService{
		soldRepo:     soldRepo,
		carRepo:      carRepo,
		store:        store,
		janitor:      janitor,
		db:           db,
		validMobile:  validMobile,
		validPincode: validPincode,
	}
}

// CreateSale records a sale and flips the car to sold as one logical
// transaction. All validation happens before anything is persisted; the
// proof image is stored before the transaction, and handed to the
// janitor if the transaction does not commit.
func (s *saleService) CreateSale(input CreateSaleInput, proofUploads []storage.Upload) (*model.Sold, error) {
	logger.Info("Creating sold record", map[string]interface{}{
		"car_id":       input.CarID,
		"payment_mode": input.PaymentMode,
	})

	if err := s.validate(input, proofUploads); err != nil {
		return nil, err
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
	if car.Availability() == model.AvailabilitySold {
		return nil, ErrCarAlreadySold
	}

	proofRef, err := s.store.Save(storage.CategoryIDProof, proofUploads[0])
	if err != nil {
		logger.Error("Failed to store id proof image", err, map[string]interface{}{
			"car_id": input.CarID,
		})
		return nil, err
	}

	soldDate := time.Now()
	if input.SoldDate != nil {
		soldDate = *input.SoldDate
	}

	record := &model.Sold{
		CarID: input.CarID,
		Buyer: model.Buyer{
			FullName:     input.Buyer.FullName,
			MobileNumber: input.Buyer.MobileNumber,
			Email:        input.Buyer.Email,
			Address:      input.Buyer.Address,
			IDProof: model.IDProof{
				Type:   input.Buyer.ProofType,
				Number: input.Buyer.ProofNumber,
				Images: []string{proofRef},
			},
		},
		SoldPrice:   input.SoldPrice,
		PaymentMode: input.PaymentMode,
		Remarks:     input.Remarks,
		SoldDate:    soldDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional flip: two racing sales on the same car can both
		// pass the read check above, but only one update matches
		// is_sold = false.
		result := tx.Model(&model.Car{}).
			Where("id = ? AND is_sold = ? AND is_deleted = ?", input.CarID, false, false).
			Update("is_sold", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCarAlreadySold
		}

		return tx.Create(record).Error
	})
	if err != nil {
		// The record was rolled back, so the proof file is an orphan.
		s.janitor.Enqueue(proofRef)
		if errors.Is(err, ErrCarAlreadySold) {
			logger.Warn("Sale rejected: car already sold", map[string]interface{}{
				"car_id": input.CarID,
			})
			return nil, ErrCarAlreadySold
		}
		logger.Error("Failed to create sold record", err, map[string]interface{}{
			"car_id": input.CarID,
		})
		return nil, err
	}

	logger.Info("Sold record created", map[string]interface{}{
		"sold_id": record.ID,
		"car_id":  record.CarID,
		"price":   record.SoldPrice,
	})
	return record, nil
}

func (s *saleService) validate(input CreateSaleInput, proofUploads []storage.Upload) error {
	if input.CarID == 0 || input.SoldPrice <= 0 ||
		input.Buyer.FullName == "" || input.Buyer.MobileNumber == "" ||
		input.Buyer.ProofNumber == "" {
		return ErrSaleMissingFields
	}
	if !input.PaymentMode.Valid() {
		return ErrInvalidPaymentMode
	}
	if !input.Buyer.ProofType.Valid() {
		return ErrInvalidIDProofType
	}
	if !s.validMobile(input.Buyer.MobileNumber) {
		return ErrInvalidMobileNumber
	}
	if input.Buyer.Address.Pincode != "" && !s.validPincode(input.Buyer.Address.Pincode) {
		return ErrInvalidPincode
	}

	// The schema requires exactly one proof image; enforced here before
	// any bytes are stored, and again by the single-element list built
	// in CreateSale.
	if len(proofUploads) != 1 {
		return ErrProofImageCount
	}
	return storage.ValidateContentType(proofUploads[0].ContentType)
}

func (s *saleService) ListSales() ([]model.Sold, error) {
	records, err := s.soldRepo.FindAll()
	if err != nil {
		return nil, err
	}

	logger.Info("Sold records listed", map[string]interface{}{
		"count": len(records),
	})
	return records, nil
}

// ExportSales renders all sale records as an XLSX workbook for the
// admin back-office.
func (s *saleService) ExportSales() (*excelize.File, error) {
	records, err := s.soldRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sold Cars"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Sale ID", "Car", "Brand", "Model", "Year",
		"Buyer", "Mobile", "ID Proof", "Sold Price", "Payment Mode", "Sold Date",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, record := range records {
		values := []interface{}{
			record.ID,
			record.Car.Name,
			record.Car.Brand,
			record.Car.Model,
			record.Car.Year,
			record.Buyer.FullName,
			record.Buyer.MobileNumber,
			fmt.Sprintf("%s %s", record.Buyer.IDProof.Type, record.Buyer.IDProof.Number),
			record.SoldPrice,
			string(record.PaymentMode),
			record.SoldDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
