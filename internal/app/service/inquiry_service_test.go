package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/db"
)

// recordingNotifier captures notifications instead of pushing them to
// websocket clients.
type recordingNotifier struct {
	mu        sync.Mutex
	inquiries []*model.Inquiry
}

func (n *recordingNotifier) NotifyNewInquiry(inquiry *model.Inquiry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inquiries = append(n.inquiries, inquiry)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inquiries)
}

func setupInquiryServiceTest(t *testing.T) (InquiryService, repository.CarRepository, *recordingNotifier) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	carRepo := repository.NewCarRepository(testDB)
	notifier := &recordingNotifier{}
	svc := NewInquiryService(repository.NewInquiryRepository(testDB), carRepo, notifier)
	return svc, carRepo, notifier
}

func validInquiryInput(carID uint) CreateInquiryInput {
	return CreateInquiryInput{
		CarID:   carID,
		Name:    "Priya Patel",
		Email:   "priya@example.com",
		Phone:   "9123456789",
		Message: "Is this still available?",
	}
}

func TestInquiryService_CreateInquiry(t *testing.T) {
	svc, carRepo, notifier := setupInquiryServiceTest(t)
	car := createTestCar(t, carRepo)

	inquiry, err := svc.CreateInquiry(validInquiryInput(car.ID))
	require.NoError(t, err)

	assert.NotZero(t, inquiry.ID)
	assert.Equal(t, model.InquiryPending, inquiry.Status)
	assert.Nil(t, inquiry.UserID)
	assert.Equal(t, 1, notifier.count())
}

func TestInquiryService_CreateInquiry_AttributesUser(t *testing.T) {
	svc, carRepo, _ := setupInquiryServiceTest(t)
	car := createTestCar(t, carRepo)

	userID := uint(42)
	input := validInquiryInput(car.ID)
	input.UserID = &userID

	inquiry, err := svc.CreateInquiry(input)
	require.NoError(t, err)
	require.NotNil(t, inquiry.UserID)
	assert.Equal(t, userID, *inquiry.UserID)

	mine, err := svc.ListUserInquiries(userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestInquiryService_CreateInquiry_MissingFields(t *testing.T) {
	svc, carRepo, notifier := setupInquiryServiceTest(t)
	car := createTestCar(t, carRepo)

	tests := []struct {
		name  string
		input CreateInquiryInput
	}{
		{
			name:  "missing car",
			input: CreateInquiryInput{Name: "Priya", Phone: "9123456789"},
		},
		{
			name:  "missing name",
			input: CreateInquiryInput{CarID: car.ID, Phone: "9123456789"},
		},
		{
			name:  "missing phone",
			input: CreateInquiryInput{CarID: car.ID, Name: "Priya"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInquiry(tt.input)
			assert.ErrorIs(t, err, ErrInquiryMissingFields)
		})
	}
	assert.Zero(t, notifier.count())
}

func TestInquiryService_CreateInquiry_CarGone(t *testing.T) {
	svc, carRepo, _ := setupInquiryServiceTest(t)

	_, err := svc.CreateInquiry(validInquiryInput(9999))
	assert.ErrorIs(t, err, ErrCarNotFound)

	removed := createTestCar(t, carRepo)
	ok, err := carRepo.SoftDelete(removed.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.CreateInquiry(validInquiryInput(removed.ID))
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestInquiryService_UpdateStatus(t *testing.T) {
	svc, carRepo, _ := setupInquiryServiceTest(t)
	car := createTestCar(t, carRepo)

	inquiry, err := svc.CreateInquiry(validInquiryInput(car.ID))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(inquiry.ID, model.InquiryContacted))

	all, err := svc.ListAllInquiries()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.InquiryContacted, all[0].Status)
}

func TestInquiryService_UpdateStatus_Invalid(t *testing.T) {
	svc, carRepo, _ := setupInquiryServiceTest(t)
	car := createTestCar(t, carRepo)

	inquiry, err := svc.CreateInquiry(validInquiryInput(car.ID))
	require.NoError(t, err)

	err = svc.UpdateStatus(inquiry.ID, model.InquiryStatus("archived"))
	assert.ErrorIs(t, err, ErrInquiryInvalidStatus)

	err = svc.UpdateStatus(9999, model.InquiryViewed)
	assert.ErrorIs(t, err, ErrInquiryNotFound)
}
