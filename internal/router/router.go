package router

import (
	"github.com/gin-gonic/gin"

	"github.com/carvanta/carvanta-backend/config"
	"github.com/carvanta/carvanta-backend/internal/app/controller"
	"github.com/carvanta/carvanta-backend/internal/errors"
	"github.com/carvanta/carvanta-backend/internal/middleware"
	"github.com/carvanta/carvanta-backend/internal/ws"
)

type Router struct {
	authController    *controller.AuthController
	carController     *controller.CarController
	adminController   *controller.AdminController
	inquiryController *controller.InquiryController
	authMiddleware    *middleware.AuthMiddleware
	hub               *ws.Hub
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	carController *controller.CarController,
	adminController *controller.AdminController,
	inquiryController *controller.InquiryController,
	authMiddleware *middleware.AuthMiddleware,
	hub *ws.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		carController:     carController,
		adminController:   adminController,
		inquiryController: inquiryController,
		authMiddleware:    authMiddleware,
		hub:               hub,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	// Serve uploaded assets
	router.Static(r.config.Upload.BaseURL, r.config.Upload.Dir)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "healthy",
				"message": "Carvanta API is running",
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/send-reset-otp", r.authController.SendResetOTP)
			auth.POST("/verify-reset-otp", r.authController.VerifyResetOTP)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.POST("/change-password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		cars := api.Group("/cars")
		{
			cars.GET("", r.authMiddleware.OptionalAuthenticate(), r.carController.ListCars)
			cars.GET("/:id", r.carController.GetCar)

			cars.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.carController.CreateCar,
			)
			cars.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.carController.UpdateCar,
			)
			cars.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.carController.DeleteCar,
			)
		}

		inquiries := api.Group("/inquiries")
		{
			inquiries.POST("", r.authMiddleware.OptionalAuthenticate(), r.inquiryController.CreateInquiry)
			inquiries.GET("/mine", r.authMiddleware.Authenticate(), r.inquiryController.ListMyInquiries)

			inquiries.GET("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.inquiryController.ListAllInquiries,
			)
			inquiries.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.inquiryController.UpdateInquiryStatus,
			)
		}

		admin := api.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/stats", r.adminController.GetStats)
			admin.GET("/users", r.adminController.ListUsers)
			admin.PUT("/users/:id/block", r.adminController.BlockUser)
			admin.PUT("/users/:id/unblock", r.adminController.UnblockUser)

			admin.POST("/sold", r.adminController.AddSold)
			admin.GET("/sold", r.adminController.ListSold)
			admin.GET("/sold/export", r.adminController.ExportSold)

			admin.GET("/notifications/ws", func(c *gin.Context) {
				userID, ok := middleware.GetUserID(c)
				if !ok {
					errors.Unauthorized(c, "")
					return
				}
				ws.ServeWS(r.hub, c, userID)
			})
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
