package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carvanta/carvanta-backend/config"
	"github.com/carvanta/carvanta-backend/internal/app/controller"
	"github.com/carvanta/carvanta-backend/internal/app/repository"
	"github.com/carvanta/carvanta-backend/internal/app/service"
	"github.com/carvanta/carvanta-backend/internal/cleanup"
	"github.com/carvanta/carvanta-backend/internal/db"
	"github.com/carvanta/carvanta-backend/internal/middleware"
	"github.com/carvanta/carvanta-backend/internal/router"
	"github.com/carvanta/carvanta-backend/internal/scheduler"
	"github.com/carvanta/carvanta-backend/internal/storage"
	"github.com/carvanta/carvanta-backend/internal/ws"
	"github.com/carvanta/carvanta-backend/pkg/logger"
	"github.com/carvanta/carvanta-backend/pkg/mailer"
	"github.com/carvanta/carvanta-backend/pkg/redis"
	"github.com/carvanta/carvanta-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Carvanta Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Bootstrap the admin account
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := db.Seed(adminEmail, adminPassword); err != nil {
			logger.Warn("Failed to seed admin account", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Initialize Redis (OTP store)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer redis.Close()

	// Select the asset store driver
	var store storage.Store
	switch cfg.Storage.Driver {
	case "s3":
		store = storage.NewS3Storage(
			cfg.Storage.S3.Region,
			cfg.Storage.S3.Bucket,
			cfg.Storage.S3.AccessKeyID,
			cfg.Storage.S3.SecretAccessKey,
			cfg.Storage.S3.BaseURL,
		)
		logger.Info("Using S3 asset store", map[string]interface{}{
			"bucket": cfg.Storage.S3.Bucket,
			"region": cfg.Storage.S3.Region,
		})
	default:
		store = storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
		logger.Info("Using local asset store", map[string]interface{}{
			"dir": cfg.Upload.Dir,
		})
	}

	// Background deletion of replaced/orphaned files
	janitor := cleanup.NewJanitor(store, 0)
	janitor.Start()
	defer janitor.Stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	carRepo := repository.NewCarRepository(db.GetDB())
	soldRepo := repository.NewSoldRepository(db.GetDB())
	inquiryRepo := repository.NewInquiryRepository(db.GetDB())

	// Admin notification hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		redis.NewOTPStore(redis.GetClient()),
		mailer.NewSMTPMailer(&cfg.SMTP),
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	carService := service.NewCarService(carRepo, store, janitor)
	saleService := service.NewSaleService(
		soldRepo, carRepo, store, janitor, db.GetDB(),
		util.IsValidMobile, util.IsValidPincode,
	)
	inquiryService := service.NewInquiryService(inquiryRepo, carRepo, hub)
	adminService := service.NewAdminService(userRepo, carRepo, soldRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	carController := controller.NewCarController(carService, cfg.Upload.MaxCarImages)
	adminController := controller.NewAdminController(adminService, saleService)
	inquiryController := controller.NewInquiryController(inquiryService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly orphan-file sweep (local driver keeps files on disk)
	if cfg.Storage.Driver != "s3" {
		cleanupScheduler := scheduler.NewCleanupScheduler(
			carRepo, soldRepo, cfg.Upload.Dir, cfg.Upload.BaseURL,
		)
		if err := cleanupScheduler.Start(); err != nil {
			logger.Warn("Failed to start cleanup scheduler", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer cleanupScheduler.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(
		authController,
		carController,
		adminController,
		inquiryController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
