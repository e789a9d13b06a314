package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/db"
	"github.com/carvanta/carvanta-backend/pkg/util"
)

const testJWTSecret = "auth-service-test-secret"

// memoryOTPStore is a map-backed OTPStore for tests.
type memoryOTPStore struct {
	mu       sync.Mutex
	codes    map[string]string
	verified map[string]bool
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{
		codes:    make(map[string]string),
		verified: make(map[string]bool),
	}
}

func (s *memoryOTPStore) StoreOTP(_ context.Context, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *memoryOTPStore) CheckOTP(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[email]
	return ok && stored == code, nil
}

func (s *memoryOTPStore) MarkVerified(_ context.Context, email string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[email] = true
	return nil
}

func (s *memoryOTPStore) IsVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[email], nil
}

func (s *memoryOTPStore) Invalidate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	delete(s.verified, email)
	return nil
}

// captureMailer records the last OTP instead of sending mail.
type captureMailer struct {
	mu      sync.Mutex
	lastTo  string
	lastOTP string
}

func (m *captureMailer) SendPasswordResetOTP(to, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = to
	m.lastOTP = otp
	return nil
}

func (m *captureMailer) sent() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTo, m.lastOTP
}

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository, *captureMailer) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	userRepo := repository.NewUserRepository(database)
	mailer := &captureMailer{}
	svc := NewAuthService(userRepo, newMemoryOTPStore(), mailer, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return svc, userRepo, mailer
}

func TestRegister(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	user, tokens, err := svc.Register("buyer@example.com", "supersecret", "Priya Patel", "9876543210")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	_, _, err := svc.Register("buyer@example.com", "supersecret", "Priya Patel", "")
	require.NoError(t, err)

	_, _, err = svc.Register("buyer@example.com", "different", "Someone Else", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	registered, _, err := svc.Register("buyer@example.com", "supersecret", "Priya Patel", "")
	require.NoError(t, err)

	user, tokens, err := svc.Login("buyer@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	_, _, err := svc.Register("buyer@example.com", "supersecret", "Priya Patel", "")
	require.NoError(t, err)

	_, _, err = svc.Login("buyer@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown addresses answer identically to wrong passwords
	_, _, err = svc.Login("nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BlockedAccount(t *testing.T) {
	svc, userRepo, _ := setupAuthServiceTest(t)

	user, _, err := svc.Register("blocked@example.com", "supersecret", "Blocked User", "")
	require.NoError(t, err)

	ok, err := userRepo.SetBlocked(user.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = svc.Login("blocked@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	user, _, err := svc.Register("buyer@example.com", "oldpassword", "Priya Patel", "")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(user.ID, "oldpassword", "newpassword"))

	_, _, err = svc.Login("buyer@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("buyer@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	user, _, err := svc.Register("buyer@example.com", "oldpassword", "Priya Patel", "")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "notthepassword", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer := setupAuthServiceTest(t)
	ctx := context.Background()

	_, _, err := svc.Register("buyer@example.com", "oldpassword", "Priya Patel", "")
	require.NoError(t, err)

	require.NoError(t, svc.SendResetOTP(ctx, "buyer@example.com"))

	to, otp := mailer.sent()
	assert.Equal(t, "buyer@example.com", to)
	require.Len(t, otp, 6)

	require.NoError(t, svc.VerifyResetOTP(ctx, "buyer@example.com", otp))
	require.NoError(t, svc.ResetPassword(ctx, "buyer@example.com", "newpassword"))

	_, _, err = svc.Login("buyer@example.com", "newpassword")
	assert.NoError(t, err)

	// The code is single-use
	err = svc.ResetPassword(ctx, "buyer@example.com", "anotherpassword")
	assert.ErrorIs(t, err, ErrOTPNotVerified)
}

func TestPasswordReset_WrongOTP(t *testing.T) {
	svc, _, mailer := setupAuthServiceTest(t)
	ctx := context.Background()

	_, _, err := svc.Register("buyer@example.com", "oldpassword", "Priya Patel", "")
	require.NoError(t, err)

	require.NoError(t, svc.SendResetOTP(ctx, "buyer@example.com"))

	_, otp := mailer.sent()
	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}
	err = svc.VerifyResetOTP(ctx, "buyer@example.com", wrong)
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestPasswordReset_WithoutVerification(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, _, err := svc.Register("buyer@example.com", "oldpassword", "Priya Patel", "")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, "buyer@example.com", "newpassword")
	assert.ErrorIs(t, err, ErrOTPNotVerified)
}

func TestSendResetOTP_UnknownEmail(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	err := svc.SendResetOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByID(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	registered, _, err := svc.Register("buyer@example.com", "supersecret", "Priya Patel", "")
	require.NoError(t, err)

	user, err := svc.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
