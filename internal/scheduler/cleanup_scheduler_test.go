package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/db"
	"github.com/carvanta/carvanta-backend/internal/storage"
)

func setupSweepTest(t *testing.T) (*CleanupScheduler, string, repository.CarRepository) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	uploadDir := t.TempDir()
	carRepo := repository.NewCarRepository(testDB)
	soldRepo := repository.NewSoldRepository(testDB)
	scheduler := NewCleanupScheduler(carRepo, soldRepo, uploadDir, "/uploads")
	return scheduler, uploadDir, carRepo
}

func createCarWithImages(t *testing.T, carRepo repository.CarRepository, images ...string) {
	t.Helper()
	car := &model.Car{
		Name:   "Honda City 2020",
		Brand:  "Honda",
		Model:  "City",
		Year:   2020,
		Price:  850000,
		Images: images,
	}
	require.NoError(t, carRepo.Create(car))
}

// writeUploadFile drops a file into a category dir with the given age.
func writeUploadFile(t *testing.T, uploadDir, category, name string, age time.Duration) string {
	t.Helper()

	dir := filepath.Join(uploadDir, category)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))

	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweep_RemovesUnreferencedOldFiles(t *testing.T) {
	scheduler, uploadDir, carRepo := setupSweepTest(t)

	createCarWithImages(t, carRepo, "/uploads/cars/kept.jpg")

	kept := writeUploadFile(t, uploadDir, storage.CategoryCars, "kept.jpg", 48*time.Hour)
	orphan := writeUploadFile(t, uploadDir, storage.CategoryCars, "orphan.jpg", 48*time.Hour)

	removed, err := scheduler.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, kept)
	assert.NoFileExists(t, orphan)
}

func TestSweep_SkipsRecentFiles(t *testing.T) {
	scheduler, uploadDir, _ := setupSweepTest(t)

	// An unreferenced file may belong to an upload still in flight
	fresh := writeUploadFile(t, uploadDir, storage.CategoryCars, "fresh.jpg", time.Hour)

	removed, err := scheduler.Sweep()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.FileExists(t, fresh)
}

func TestSweep_CoversProofImages(t *testing.T) {
	scheduler, uploadDir, _ := setupSweepTest(t)

	orphanProof := writeUploadFile(t, uploadDir, storage.CategoryIDProof, "stale.jpg", 48*time.Hour)

	removed, err := scheduler.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, orphanProof)
}

func TestSweep_MissingCategoryDirs(t *testing.T) {
	scheduler, _, _ := setupSweepTest(t)

	removed, err := scheduler.Sweep()
	require.NoError(t, err)
	assert.Zero(t, removed)
}
