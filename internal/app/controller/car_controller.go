package controller

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/errors"
	"github.com/carvanta/carvanta-backend/internal/middleware"
	"github.com/carvanta/carvanta-backend/internal/storage"
)

type CarController struct {
	carService   service.CarService
	maxCarImages int
}

func NewCarController(carService service.CarService, maxCarImages int) *CarController {
	return &CarController{
		carService:   carService,
		maxCarImages: maxCarImages,
	}
}

// CreateCar creates a car listing (Admin only)
// POST /api/cars (multipart, images under "images")
func (ctrl *CarController) CreateCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.CreateCarInput{
		Name:         c.PostForm("name"),
		Brand:        c.PostForm("brand"),
		Model:        c.PostForm("model"),
		Year:         parseFormInt(c.PostForm("year")),
		Price:        parseFormFloat(c.PostForm("price")),
		KmDriven:     parseFormInt(c.PostForm("kmDriven")),
		FuelType:     c.PostForm("fuelType"),
		Transmission: c.PostForm("transmission"),
		OwnerCount:   parseFormInt(c.PostForm("ownerCount")),
		Description:  c.PostForm("description"),
		Features:     normalizeStringList(c, "features"),
		Condition:    model.CarCondition(c.PostForm("condition")),
		IsFeatured:   c.PostForm("isFeatured") == "true",
	}

	uploads, closeFiles, err := ctrl.collectImageUploads(c)
	if err != nil {
		log.Warn("Invalid car image upload", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.CarTooManyImages, err.Error())
		return
	}
	defer closeFiles()

	car, err := ctrl.carService.CreateCar(input, uploads)
	if err != nil {
		ctrl.respondCarError(c, err, "Failed to add car")
		return
	}

	log.Info("Car listing created", map[string]interface{}{
		"car_id": car.ID,
		"name":   car.Name,
	})
	errors.Success(c, http.StatusCreated, "Car added successfully", car)
}

// ListCars returns a paginated, filtered car listing page
// GET /api/cars?page&limit&q&brand&minPrice&maxPrice
func (ctrl *CarController) ListCars(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.CarListOptions{
		Query: c.Query("q"),
		Brand: c.Query("brand"),
		Page:  parseFormInt(c.Query("page")),
		Limit: parseFormInt(c.Query("limit")),
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MaxPrice = &f
		}
	}

	// Admin views include sold listings
	if role, ok := middleware.GetUserRole(c); ok && role == model.RoleAdmin {
		opts.IncludeSold = true
	}

	page, err := ctrl.carService.ListCars(opts)
	if err != nil {
		log.Error("Failed to list cars", err, nil)
		errors.InternalError(c, "Failed to fetch cars")
		return
	}

	errors.Success(c, http.StatusOK, "Cars fetched successfully", page)
}

// GetCar returns one car
// GET /api/cars/:id
func (ctrl *CarController) GetCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	car, err := ctrl.carService.GetCarByID(id)
	if err != nil {
		ctrl.respondCarError(c, err, "Failed to fetch car")
		return
	}

	log.Debug("Car fetched", map[string]interface{}{
		"car_id": car.ID,
	})
	errors.Success(c, http.StatusOK, "Car fetched successfully", car)
}

// UpdateCar updates a listing and reconciles its image set (Admin only)
// PUT /api/cars/:id (multipart, new files under "images", removal
// targets under "deletesImage")
func (ctrl *CarController) UpdateCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	input := service.UpdateCarInput{
		Name:         formStringPtr(c, "name"),
		Brand:        formStringPtr(c, "brand"),
		Model:        formStringPtr(c, "model"),
		Year:         formIntPtr(c, "year"),
		Price:        formFloatPtr(c, "price"),
		KmDriven:     formIntPtr(c, "kmDriven"),
		FuelType:     formStringPtr(c, "fuelType"),
		Transmission: formStringPtr(c, "transmission"),
		OwnerCount:   formIntPtr(c, "ownerCount"),
		Description:  formStringPtr(c, "description"),
		DeletesImage: normalizeStringList(c, "deletesImage"),
	}
	if _, exists := c.GetPostForm("features"); exists {
		input.Features = normalizeStringList(c, "features")
	}
	if v, exists := c.GetPostForm("condition"); exists {
		cond := model.CarCondition(v)
		input.Condition = &cond
	}
	if v, exists := c.GetPostForm("isFeatured"); exists {
		featured := v == "true"
		input.IsFeatured = &featured
	}

	uploads, closeFiles, err := ctrl.collectImageUploads(c)
	if err != nil {
		log.Warn("Invalid car image upload", map[string]interface{}{
			"car_id": id,
			"error":  err.Error(),
		})
		errors.BadRequest(c, errors.CarTooManyImages, err.Error())
		return
	}
	defer closeFiles()

	car, err := ctrl.carService.UpdateCar(id, input, uploads)
	if err != nil {
		ctrl.respondCarError(c, err, "Failed to update car")
		return
	}

	log.Info("Car listing updated", map[string]interface{}{
		"car_id": car.ID,
	})
	errors.Success(c, http.StatusOK, "Car updated successfully", car)
}

// DeleteCar soft deletes a listing (Admin only)
// DELETE /api/cars/:id
func (ctrl *CarController) DeleteCar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.carService.DeleteCar(id); err != nil {
		ctrl.respondCarError(c, err, "Failed to delete car")
		return
	}

	log.Info("Car listing deleted", map[string]interface{}{
		"car_id": id,
	})
	errors.Success(c, http.StatusOK, "Car deleted successfully", nil)
}

func (ctrl *CarController) respondCarError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	switch err {
	case service.ErrCarNotFound:
		errors.NotFound(c, errors.CarNotFound, "Car not found")
	case service.ErrCarMissingFields:
		errors.BadRequest(c, errors.ValidationRequired, err.Error())
	case service.ErrCarInvalidPrice:
		errors.BadRequest(c, errors.CarInvalidPrice, err.Error())
	case service.ErrCarInvalidYear:
		errors.BadRequest(c, errors.CarInvalidYear, err.Error())
	case service.ErrCarInvalidCondition:
		errors.BadRequest(c, errors.ValidationInvalidInput, err.Error())
	default:
		if strings.Contains(err.Error(), "not allowed") {
			errors.BadRequest(c, errors.UploadInvalidFileType, err.Error())
			return
		}
		log.Error(fallback, err, nil)
		errors.InternalError(c, fallback)
	}
}

// collectImageUploads opens the "images" files of the multipart form.
// The returned closer releases the file handles once the service call
// has consumed the readers.
func (ctrl *CarController) collectImageUploads(c *gin.Context) ([]storage.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Non-multipart requests carry no files
		return nil, func() {}, nil
	}

	files := form.File["images"]
	if len(files) > ctrl.maxCarImages {
		return nil, func() {}, fmt.Errorf("a listing can carry at most %d images", ctrl.maxCarImages)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	uploads := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}

// normalizeStringList accepts the three shapes clients send list fields
// in: repeated form fields, one JSON array string, or one comma string.
func normalizeStringList(c *gin.Context, field string) []string {
	values := c.PostFormArray(field)
	if len(values) == 0 {
		return nil
	}
	if len(values) > 1 {
		return values
	}

	raw := strings.TrimSpace(values[0])
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return parsed
		}
	}

	var result []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func parseFormInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseFormFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func formStringPtr(c *gin.Context, field string) *string {
	if v, exists := c.GetPostForm(field); exists {
		return &v
	}
	return nil
}

func formIntPtr(c *gin.Context, field string) *int {
	if v, exists := c.GetPostForm(field); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func formFloatPtr(c *gin.Context, field string) *float64 {
	if v, exists := c.GetPostForm(field); exists {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}
