package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/errors"
	"github.com/carvanta/carvanta-backend/internal/middleware"
	"github.com/carvanta/carvanta-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Mobile   string `json:"mobile"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SendResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type authPayload struct {
	User   *model.User     `json:"user"`
	Tokens *util.TokenPair `json:"tokens"`
}

// Register creates an account and returns a token pair
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Mobile)
	if err != nil {
		if err == service.ErrEmailAlreadyExists {
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "An account with this email already exists")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Registration failed")
		return
	}

	errors.Success(c, http.StatusCreated, "Account created successfully", authPayload{
		User:   user,
		Tokens: tokens,
	})
}

// Login authenticates and returns a token pair
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Invalid email or password")
		case service.ErrAccountBlocked:
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthAccountBlocked, "This account has been blocked")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			errors.InternalError(c, "Login failed")
		}
		return
	}

	errors.Success(c, http.StatusOK, "Logged in successfully", authPayload{
		User:   user,
		Tokens: tokens,
	})
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		errors.InternalError(c, "Failed to fetch profile")
		return
	}

	errors.Success(c, http.StatusOK, "Profile fetched successfully", user)
}

// ChangePassword rotates the password of the authenticated user
// POST /api/auth/change-password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Current password is incorrect")
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.UserNotFound, "User not found")
		default:
			log.Error("Password change failed", err, map[string]interface{}{
				"user_id": userID,
			})
			errors.InternalError(c, "Failed to change password")
		}
		return
	}

	errors.Success(c, http.StatusOK, "Password changed successfully", nil)
}

// SendResetOTP emails a 6-digit password reset code
// POST /api/auth/send-reset-otp
func (ctrl *AuthController) SendResetOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		if err == service.ErrUserNotFound {
			// The response does not reveal whether the address exists
			errors.Success(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
			return
		}
		log.Error("Failed to send reset OTP", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Failed to send reset code")
		return
	}

	errors.Success(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
}

// VerifyResetOTP checks the submitted reset code
// POST /api/auth/verify-reset-otp
func (ctrl *AuthController) VerifyResetOTP(c *gin.Context) {
	var req VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.VerifyResetOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		if err == service.ErrOTPInvalid {
			errors.BadRequest(c, errors.AuthOTPInvalid, "Invalid or expired code")
			return
		}
		errors.InternalError(c, "Failed to verify code")
		return
	}

	errors.Success(c, http.StatusOK, "Code verified successfully", nil)
}

// ResetPassword sets a new password after OTP verification
// POST /api/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		switch err {
		case service.ErrOTPNotVerified:
			errors.BadRequest(c, errors.AuthOTPNotVerified, "Verify the reset code first")
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.UserNotFound, "User not found")
		default:
			log.Error("Password reset failed", err, map[string]interface{}{
				"email": req.Email,
			})
			errors.InternalError(c, "Failed to reset password")
		}
		return
	}

	errors.Success(c, http.StatusOK, "Password reset successfully", nil)
}
