package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/errors"
	"github.com/carvanta/carvanta-backend/internal/middleware"
)

type InquiryController struct {
	inquiryService service.InquiryService
}

func NewInquiryController(inquiryService service.InquiryService) *InquiryController {
	return &InquiryController{
		inquiryService: inquiryService,
	}
}

type CreateInquiryRequest struct {
	CarID   uint   `json:"car_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

type UpdateInquiryStatusRequest struct {
	Status model.InquiryStatus `json:"status" binding:"required"`
}

// CreateInquiry records buyer interest against a car. Works for guests;
// logged-in users get the inquiry attributed to their account.
// POST /api/inquiries
func (ctrl *InquiryController) CreateInquiry(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid inquiry request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input := service.CreateInquiryInput{
		CarID:   req.CarID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		input.UserID = &userID
	}

	inquiry, err := ctrl.inquiryService.CreateInquiry(input)
	if err != nil {
		switch err {
		case service.ErrCarNotFound:
			errors.NotFound(c, errors.CarNotFound, "Car not found")
		case service.ErrInquiryMissingFields:
			errors.BadRequest(c, errors.ValidationRequired, err.Error())
		default:
			log.Error("Failed to create inquiry", err, map[string]interface{}{
				"car_id": req.CarID,
			})
			errors.InternalError(c, "Failed to submit inquiry")
		}
		return
	}

	log.Info("Inquiry created", map[string]interface{}{
		"inquiry_id": inquiry.ID,
		"car_id":     inquiry.CarID,
	})
	errors.Success(c, http.StatusCreated, "Inquiry submitted successfully", inquiry)
}

// ListMyInquiries returns the authenticated user's inquiries
// GET /api/inquiries/mine
func (ctrl *InquiryController) ListMyInquiries(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	inquiries, err := ctrl.inquiryService.ListUserInquiries(userID)
	if err != nil {
		log.Error("Failed to fetch inquiries", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to fetch inquiries")
		return
	}

	errors.Success(c, http.StatusOK, "Inquiries fetched successfully", inquiries)
}

// ListAllInquiries returns every inquiry (Admin only)
// GET /api/inquiries
func (ctrl *InquiryController) ListAllInquiries(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	inquiries, err := ctrl.inquiryService.ListAllInquiries()
	if err != nil {
		log.Error("Failed to fetch inquiries", err, nil)
		errors.InternalError(c, "Failed to fetch inquiries")
		return
	}

	errors.Success(c, http.StatusOK, "Inquiries fetched successfully", inquiries)
}

// UpdateInquiryStatus moves an inquiry through its workflow (Admin only)
// PUT /api/inquiries/:id
func (ctrl *InquiryController) UpdateInquiryStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.inquiryService.UpdateStatus(id, req.Status); err != nil {
		switch err {
		case service.ErrInquiryNotFound:
			errors.NotFound(c, errors.InquiryNotFound, "Inquiry not found")
		case service.ErrInquiryInvalidStatus:
			errors.BadRequest(c, errors.InquiryInvalidStatus, err.Error())
		default:
			log.Error("Failed to update inquiry status", err, map[string]interface{}{
				"inquiry_id": id,
			})
			errors.InternalError(c, "Failed to update inquiry")
		}
		return
	}

	log.Info("Inquiry status updated", map[string]interface{}{
		"inquiry_id": id,
		"status":     req.Status,
	})
	errors.Success(c, http.StatusOK, "Inquiry updated successfully", nil)
}
