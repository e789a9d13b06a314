package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/storage"
	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// Files younger than this are skipped by the sweep so uploads that are
// mid-request never get collected.
const orphanMinAge = 24 * time.Hour

// CleanupScheduler removes upload files no listing or sale record
// references anymore. It backs up the in-process deletion queue, which
// drops work when the process dies or its buffer fills.
type CleanupScheduler struct {
	cron      *cron.Cron
	carRepo   repository.CarRepository
	soldRepo  repository.SoldRepository
	uploadDir string
	baseURL   string
}

func NewCleanupScheduler(
	carRepo repository.CarRepository,
	soldRepo repository.SoldRepository,
	uploadDir, baseURL string,
) *CleanupScheduler {
	return &CleanupScheduler{
		cron:      cron.New(),
		carRepo:   carRepo,
		soldRepo:  soldRepo,
		uploadDir: uploadDir,
		baseURL:   baseURL,
	}
}

// Start schedules the nightly sweep at 03:00.
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		removed, err := s.Sweep()
		if err != nil {
			logger.Error("Orphan file sweep failed", err, nil)
			return
		}
		logger.Info("Orphan file sweep completed", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		logger.Error("Failed to register orphan sweep job", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started (daily at 3:00 AM)", nil)
	return nil
}

// Stop stops the scheduler.
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping cleanup scheduler", nil)
	s.cron.Stop()
}

// Sweep walks the upload categories and deletes files that are old
// enough and referenced by no car or sale record. Returns the number of
// files removed.
func (s *CleanupScheduler) Sweep() (int, error) {
	referenced, err := s.referencedRefs()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-orphanMinAge)
	removed := 0

	for _, category := range []string{storage.CategoryCars, storage.CategoryIDProof} {
		dir := filepath.Join(s.uploadDir, category)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}

			ref := s.refFor(category, entry.Name())
			if referenced[ref] {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				logger.Warn("Failed to remove orphan file", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
				continue
			}
			removed++
			logger.Debug("Removed orphan file", map[string]interface{}{
				"ref": ref,
			})
		}
	}

	return removed, nil
}

func (s *CleanupScheduler) referencedRefs() (map[string]bool, error) {
	carRefs, err := s.carRepo.AllImageRefs()
	if err != nil {
		return nil, err
	}
	proofRefs, err := s.soldRepo.AllProofRefs()
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool, len(carRefs)+len(proofRefs))
	for _, ref := range carRefs {
		referenced[ref] = true
	}
	for _, ref := range proofRefs {
		referenced[ref] = true
	}
	return referenced, nil
}

func (s *CleanupScheduler) refFor(category, filename string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/" + category + "/" + filename
}
