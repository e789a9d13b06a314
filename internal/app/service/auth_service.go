package service

import (
	"context"
	"errors"
	"time"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"github.com/carvanta/carvanta-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrOTPInvalid         = errors.New("invalid or expired otp")
	ErrOTPNotVerified     = errors.New("otp has not been verified")
)

const otpTTL = 10 * time.Minute

// OTPStore holds password-reset one-time codes with expiry. Backed by
// Redis in production, a map in tests.
type OTPStore interface {
	StoreOTP(ctx context.Context, email, code string, ttl time.Duration) error
	CheckOTP(ctx context.Context, email, code string) (bool, error)
	MarkVerified(ctx context.Context, email string, ttl time.Duration) error
	IsVerified(ctx context.Context, email string) (bool, error)
	Invalidate(ctx context.Context, email string) error
}

// Mailer delivers transactional mail.
type Mailer interface {
	SendPasswordResetOTP(to, otp string) error
}

type AuthService interface {
	Register(email, password, name, mobile string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
	SendResetOTP(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type authService struct {
	userRepo      repository.UserRepository
	otpStore      OTPStore
	mailer        Mailer
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	otpStore OTPStore,
	mailer Mailer,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		otpStore:      otpStore,
		mailer:        mailer,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(email, password, name, mobile string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Mobile:       mobile,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtSecret, s.accessExpiry, s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsBlocked {
		logger.Warn("Login rejected: account blocked", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrAccountBlocked
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtSecret, s.accessExpiry, s.refreshExpiry,
	)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// SendResetOTP generates a 6-digit code, stores it with a 10-minute
// TTL and emails it to the account address.
func (s *authService) SendResetOTP(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		return err
	}

	if err := s.otpStore.StoreOTP(ctx, email, otp, otpTTL); err != nil {
		logger.Error("Failed to store reset OTP", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	if err := s.mailer.SendPasswordResetOTP(email, otp); err != nil {
		logger.Error("Failed to send reset OTP mail", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Info("Password reset OTP sent", map[string]interface{}{
		"email": email,
	})
	return nil
}

// VerifyResetOTP checks the submitted code and marks the address
// verified for a follow-up ResetPassword call.
func (s *authService) VerifyResetOTP(ctx context.Context, email, otp string) error {
	ok, err := s.otpStore.CheckOTP(ctx, email, otp)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPInvalid
	}

	return s.otpStore.MarkVerified(ctx, email, otpTTL)
}

// ResetPassword requires a previously verified OTP for the address.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	verified, err := s.otpStore.IsVerified(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return ErrOTPNotVerified
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.otpStore.Invalidate(ctx, email); err != nil {
		logger.Warn("Failed to invalidate used OTP", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"email": email,
	})
	return nil
}
