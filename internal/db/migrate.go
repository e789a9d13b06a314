package db

import (
	"errors"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"github.com/carvanta/carvanta-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Car{},
		&model.Sold{},
		&model.Inquiry{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed ensures a bootstrap admin account exists.
func Seed(adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		logger.Info("Admin seed credentials not provided, skipping admin seed")
		return nil
	}

	var existing model.User
	err := DB.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Admin account already exists, skipping seed", map[string]interface{}{
			"email": adminEmail,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Admin account seeded", map[string]interface{}{
		"email": adminEmail,
	})
	return nil
}
