package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/db"
)

func setupSoldRepoTest(t *testing.T) (SoldRepository, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return NewSoldRepository(database), database
}

func insertSale(t *testing.T, database *gorm.DB, carName string, soldDate time.Time) *model.Sold {
	t.Helper()

	car := newTestCar(carName, "Honda", 500000)
	car.IsSold = true
	require.NoError(t, database.Create(car).Error)

	record := &model.Sold{
		CarID: car.ID,
		Buyer: model.Buyer{
			FullName:     "Rahul Sharma",
			MobileNumber: "9876543210",
			IDProof: model.IDProof{
				Type:   model.ProofAadhar,
				Number: "1234-5678-9012",
				Images: []string{"/uploads/id-proof/" + carName + ".jpg"},
			},
		},
		SoldPrice:   480000,
		PaymentMode: model.PaymentUPI,
		SoldDate:    soldDate,
	}
	require.NoError(t, database.Create(record).Error)
	return record
}

func TestSoldRepository_FindAll(t *testing.T) {
	repo, database := setupSoldRepoTest(t)

	insertSale(t, database, "Older", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	insertSale(t, database, "Newer", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	records, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest sale first, car resolved inline
	assert.Equal(t, "Newer", records[0].Car.Name)
	assert.Equal(t, "Older", records[1].Car.Name)
	assert.Equal(t, "Rahul Sharma", records[0].Buyer.FullName)
}

func TestSoldRepository_FindByCarID(t *testing.T) {
	repo, database := setupSoldRepoTest(t)

	record := insertSale(t, database, "City ZX", time.Now())

	found, err := repo.FindByCarID(record.CarID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, model.PaymentUPI, found.PaymentMode)

	_, err = repo.FindByCarID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSoldRepository_Count(t *testing.T) {
	repo, database := setupSoldRepoTest(t)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, total)

	insertSale(t, database, "One", time.Now())
	insertSale(t, database, "Two", time.Now())

	total, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSoldRepository_AllProofRefs(t *testing.T) {
	repo, database := setupSoldRepoTest(t)

	insertSale(t, database, "One", time.Now())
	insertSale(t, database, "Two", time.Now())

	refs, err := repo.AllProofRefs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/uploads/id-proof/One.jpg",
		"/uploads/id-proof/Two.jpg",
	}, refs)
}

func TestSoldRepository_OneSalePerCar(t *testing.T) {
	_, database := setupSoldRepoTest(t)

	record := insertSale(t, database, "Unique", time.Now())

	duplicate := &model.Sold{
		CarID: record.CarID,
		Buyer: model.Buyer{
			FullName:     "Someone Else",
			MobileNumber: "9123456789",
			IDProof: model.IDProof{
				Type:   model.ProofPAN,
				Number: "ABCDE1234F",
				Images: []string{"/uploads/id-proof/dup.jpg"},
			},
		},
		SoldPrice:   470000,
		PaymentMode: model.PaymentCash,
		SoldDate:    time.Now(),
	}
	assert.Error(t, database.Create(duplicate).Error)
}
