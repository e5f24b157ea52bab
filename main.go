package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/whatsupskylar/sky-toys-api/config"
	"github.com/whatsupskylar/sky-toys-api/controllers"
	"github.com/whatsupskylar/sky-toys-api/middleware"
	"github.com/whatsupskylar/sky-toys-api/models"
	"github.com/whatsupskylar/sky-toys-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Sky Toys API server...")

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	if _, err := services.InitS3Service(); err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitTransformService(cfg)
	services.InitEmailService(cfg)
	controllers.InitWorkflowStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)

	// Initialize Gin router with CORS for the storefront
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes wires the public funnel, operator, and admin route groups
func registerRoutes(router *gin.Engine, cfg *config.Config) {
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Customer order funnel (no authentication; sessions are anonymous)
		wf := v1.Group("/workflow")
		{
			wf.POST("", controllers.CreateWorkflow)
			wf.GET("/:id", controllers.GetWorkflow)
			wf.POST("/:id/model-check", controllers.ModelCheck)
			wf.POST("/:id/upload", controllers.UploadImage)
			wf.POST("/:id/confirm", controllers.ConfirmPreview)
			wf.POST("/:id/retry", controllers.RetryUpload)
			wf.POST("/:id/submit", controllers.SubmitOrder)
			wf.POST("/:id/reset", controllers.ResetWorkflow)
		}

		// Operator accounts (Auth0 authenticated)
		users := v1.Group("/users", middleware.EnsureValidToken(cfg))
		{
			users.POST("", controllers.CreateUser)
			users.GET("/me", controllers.GetMyProfile)
			users.PUT("/me", controllers.UpdateMyProfile)
		}

		// Order dashboard (Auth0 authenticated, admin role required)
		admin := v1.Group("/admin", middleware.EnsureValidToken(cfg), middleware.RequireAdmin())
		{
			admin.GET("/orders", controllers.ListOrders)
			admin.PUT("/orders/:id", controllers.UpdateOrder)
		}
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sky Toys API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
