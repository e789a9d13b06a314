package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard response body: every endpoint, success or
// failure, replies with {success, message, data|error}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable code plus an optional detail string.
type ErrorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Success writes a success envelope.
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a failure envelope.
// statusCode: HTTP status; errorCode: constant from codes.go; message: human-readable.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Error:   ErrorBody{Code: errorCode},
	})
}

// RespondWithDetail is RespondWithError plus an underlying detail string.
// Detail must never carry stack traces, only the failure message.
func RespondWithDetail(c *gin.Context, statusCode int, errorCode string, message string, detail string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Error:   ErrorBody{Code: errorCode, Detail: detail},
	})
}

// Shorthand helpers for frequent failure classes.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationFailure reports per-field validation errors.
type ValidationFailure struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   ErrorBody         `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationFailure{
		Success: false,
		Message: "Invalid input",
		Error:   ErrorBody{Code: ValidationInvalidInput},
		Fields:  fields,
	})
}
