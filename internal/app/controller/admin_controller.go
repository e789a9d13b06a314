package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/errors"
	"github.com/carvanta/carvanta-backend/internal/middleware"
	"github.com/carvanta/carvanta-backend/internal/storage"
)

type AdminController struct {
	adminService service.AdminService
	saleService  service.SaleService
}

func NewAdminController(adminService service.AdminService, saleService service.SaleService) *AdminController {
	return &AdminController{
		adminService: adminService,
		saleService:  saleService,
	}
}

// GetStats returns dashboard counters
// GET /api/admin/stats
func (ctrl *AdminController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetStats()
	if err != nil {
		log.Error("Failed to load dashboard statistics", err, nil)
		errors.InternalError(c, "Failed to load dashboard statistics")
		return
	}

	errors.Success(c, http.StatusOK, "Dashboard statistics loaded successfully", stats)
}

// ListUsers returns all non-admin accounts
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.adminService.ListUsers()
	if err != nil {
		log.Error("Failed to fetch users", err, nil)
		errors.InternalError(c, "Failed to fetch users")
		return
	}

	errors.Success(c, http.StatusOK, "Users fetched successfully", users)
}

// BlockUser blocks an account
// PUT /api/admin/users/:id/block
func (ctrl *AdminController) BlockUser(c *gin.Context) {
	ctrl.setBlocked(c, true, "User has been blocked successfully")
}

// UnblockUser lifts a block
// PUT /api/admin/users/:id/unblock
func (ctrl *AdminController) UnblockUser(c *gin.Context) {
	ctrl.setBlocked(c, false, "User has been unblocked successfully")
}

func (ctrl *AdminController) setBlocked(c *gin.Context, blocked bool, message string) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := ctrl.adminService.SetUserBlocked(id, blocked)
	if err != nil {
		if err == service.ErrUserNotFound {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to update user block state", err, map[string]interface{}{
			"user_id": id,
		})
		errors.InternalError(c, "Failed to update user")
		return
	}

	log.Info("User block state changed", map[string]interface{}{
		"user_id": user.ID,
		"blocked": blocked,
	})
	errors.Success(c, http.StatusOK, message, user)
}

// AddSold records a sale (Admin only)
// POST /api/admin/sold (multipart, exactly one file under "idProofImage")
func (ctrl *AdminController) AddSold(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.CreateSaleInput{
		CarID:       uint(parseFormInt(c.PostForm("carId"))),
		SoldPrice:   parseFormFloat(c.PostForm("soldPrice")),
		PaymentMode: model.PaymentMode(c.PostForm("paymentMode")),
		Remarks:     c.PostForm("remarks"),
		Buyer: service.BuyerInput{
			FullName:     c.PostForm("buyerFullName"),
			MobileNumber: c.PostForm("buyerMobileNumber"),
			Email:        c.PostForm("buyerEmail"),
			Address: model.BuyerAddress{
				Street:  c.PostForm("buyerStreet"),
				City:    c.PostForm("buyerCity"),
				State:   c.PostForm("buyerState"),
				Pincode: c.PostForm("buyerPincode"),
			},
			ProofType:   model.IDProofType(c.PostForm("idProofType")),
			ProofNumber: c.PostForm("idProofNumber"),
		},
	}
	if v := c.PostForm("soldDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			input.SoldDate = &t
		}
	}

	uploads, closeFiles, err := collectProofUploads(c)
	if err != nil {
		log.Warn("Invalid id proof upload", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.UploadFailed, err.Error())
		return
	}
	defer closeFiles()

	record, err := ctrl.saleService.CreateSale(input, uploads)
	if err != nil {
		ctrl.respondSaleError(c, err)
		return
	}

	log.Info("Sold record created", map[string]interface{}{
		"sold_id": record.ID,
		"car_id":  record.CarID,
	})
	errors.Success(c, http.StatusCreated, "Sold car entry added successfully", record)
}

// ListSold returns all sale records, newest first
// GET /api/admin/sold
func (ctrl *AdminController) ListSold(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	records, err := ctrl.saleService.ListSales()
	if err != nil {
		log.Error("Failed to fetch sold cars list", err, nil)
		errors.InternalError(c, "Failed to fetch sold cars list")
		return
	}

	errors.Success(c, http.StatusOK, "Sold cars list fetched successfully", records)
}

// ExportSold streams all sale records as an XLSX workbook
// GET /api/admin/sold/export
func (ctrl *AdminController) ExportSold(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.saleService.ExportSales()
	if err != nil {
		log.Error("Failed to export sold cars", err, nil)
		errors.InternalError(c, "Failed to export sold cars")
		return
	}

	filename := fmt.Sprintf("sold-cars-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream XLSX export", err, nil)
	}
}

func (ctrl *AdminController) respondSaleError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch err {
	case service.ErrCarNotFound:
		errors.NotFound(c, errors.CarNotFound, "Car not found")
	case service.ErrCarAlreadySold:
		errors.Conflict(c, errors.CarAlreadySold, "Car is already sold")
	case service.ErrSaleMissingFields:
		errors.BadRequest(c, errors.ValidationRequired, err.Error())
	case service.ErrInvalidMobileNumber:
		errors.BadRequest(c, errors.SaleInvalidMobile, err.Error())
	case service.ErrInvalidPincode:
		errors.BadRequest(c, errors.SaleInvalidBuyer, err.Error())
	case service.ErrInvalidPaymentMode:
		errors.BadRequest(c, errors.SaleInvalidPayment, err.Error())
	case service.ErrInvalidIDProofType:
		errors.BadRequest(c, errors.SaleInvalidIDProof, err.Error())
	case service.ErrProofImageCount:
		errors.BadRequest(c, errors.SaleProofImageCount, err.Error())
	default:
		log.Error("Failed to add sold car entry", err, nil)
		errors.InternalError(c, "Failed to add sold car entry")
	}
}

// collectProofUploads opens the "idProofImage" files. Cardinality is
// validated by the sale service; the controller only opens what arrived.
func collectProofUploads(c *gin.Context) ([]storage.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, nil
	}

	files := form.File["idProofImage"]
	var closers []func() error
	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	uploads := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, f.Close)
		uploads = append(uploads, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}
