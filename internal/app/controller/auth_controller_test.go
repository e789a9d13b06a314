package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/db"
	"github.com/carvanta/carvanta-backend/internal/middleware"
)

// mapOTPStore and nopMailer stand in for Redis and SMTP.
type mapOTPStore struct {
	mu       sync.Mutex
	codes    map[string]string
	verified map[string]bool
}

func newMapOTPStore() *mapOTPStore {
	return &mapOTPStore{codes: make(map[string]string), verified: make(map[string]bool)}
}

func (s *mapOTPStore) StoreOTP(_ context.Context, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *mapOTPStore) CheckOTP(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[email]
	return ok && stored == code, nil
}

func (s *mapOTPStore) MarkVerified(_ context.Context, email string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[email] = true
	return nil
}

func (s *mapOTPStore) IsVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[email], nil
}

func (s *mapOTPStore) Invalidate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	delete(s.verified, email)
	return nil
}

type nopMailer struct{}

func (nopMailer) SendPasswordResetOTP(_, _ string) error { return nil }

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(
		userRepo,
		newMapOTPStore(),
		nopMailer{},
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.Me)

	return router, authService
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
		Mobile:   "9876543210",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Account created successfully", response["message"])

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, data["user"])
	assert.NotNil(t, data["tokens"])
}

func TestAuthController_Register_InvalidInput(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	tests := []struct {
		name string
		body RegisterRequest
	}{
		{
			name: "bad email",
			body: RegisterRequest{Email: "not-an-email", Password: "password123", Name: "Test"},
		},
		{
			name: "short password",
			body: RegisterRequest{Email: "test@example.com", Password: "short", Name: "Test"},
		},
		{
			name: "missing name",
			body: RegisterRequest{Email: "test@example.com", Password: "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "test@example.com",
		Password: "password456",
		Name:     "Another User",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Login_Success(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "test@example.com",
		Password: "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestAuthController_Me(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test@example.com")

	// Without a token the profile is off limits
	req = httptest.NewRequest("GET", "/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
