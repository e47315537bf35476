package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/obraflow/obraflow-api/internal/config"
	"github.com/obraflow/obraflow-api/internal/constants"
	"github.com/obraflow/obraflow-api/internal/database"
	"github.com/obraflow/obraflow-api/internal/handlers"
	"github.com/obraflow/obraflow-api/internal/middleware"
	"github.com/obraflow/obraflow-api/internal/repository"
	"github.com/obraflow/obraflow-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	checklistDeliveryRepo := repository.NewChecklistDeliveryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo)
	stockService := services.NewStockService(stockRepo)
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, projectRepo, projectService, stockService, notificationService)
	checklistService := services.NewChecklistService(taskRepo, projectRepo, checklistDeliveryRepo, userRepo, projectService, notificationService)
	deliveryService := services.NewDeliveryService(taskRepo, projectRepo, deliveryRepo, userRepo, projectService, notificationService)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	checklistHandler := handlers.NewChecklistHandler(checklistService, aiService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	stockHandler := handlers.NewStockHandler(stockService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ObraFlow API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", middleware.RequirePrivileged(), projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/finalize", middleware.RequirePrivileged(), projectHandler.FinalizeProject)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("/mine", taskHandler.ListMyTasks)
			tasks.POST("", middleware.RequirePrivileged(), taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(), middleware.RequirePrivileged(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), middleware.RequirePrivileged(), taskHandler.DeleteTask)
			tasks.PUT("/:id/status", middleware.RequireTaskAccess(), middleware.RequirePrivileged(), taskHandler.ChangeStatus)

			// Checklist workflow
			tasks.PUT("/:id/checklist", middleware.RequireTaskAccess(), checklistHandler.UpdateChecklist)
			tasks.GET("/:id/checklist/deliveries", middleware.RequireTaskAccess(), checklistHandler.ListSubmissions)
			tasks.POST("/:id/checklist/suggest", middleware.RequireTaskAccess(), checklistHandler.SuggestChecklist)
			tasks.POST("/:id/checklist/:index/submit", middleware.RequireTaskAccess(), checklistHandler.SubmitItem)
			tasks.POST("/:id/checklist/:index/review", middleware.RequireTaskAccess(), checklistHandler.ReviewItem)

			// Delivery workflow
			tasks.GET("/:id/deliveries", middleware.RequireTaskAccess(), deliveryHandler.ListDeliveries)
			tasks.POST("/:id/deliveries", middleware.RequireTaskAccess(), deliveryHandler.SubmitDelivery)
			tasks.PUT("/:id/deliveries/:deliveryId", middleware.RequireTaskAccess(), deliveryHandler.UpdateDelivery)
			tasks.POST("/:id/deliveries/approve", middleware.RequireTaskAccess(), deliveryHandler.ApproveDelivery)
			tasks.POST("/:id/deliveries/reject", middleware.RequireTaskAccess(), deliveryHandler.RejectDelivery)
		}

		// Stock routes (protected)
		stock := api.Group("/stock")
		stock.Use(middleware.RequireAuth())
		{
			stock.GET("", stockHandler.ListItems)
			stock.POST("", middleware.RequirePrivileged(), stockHandler.CreateItem)
			stock.GET("/:id/availability", stockHandler.GetAvailability)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
