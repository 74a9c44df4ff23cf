package main

import (
	"log"
	"pest_marketplace/internal/config"
	"pest_marketplace/internal/database"
	"pest_marketplace/internal/handlers"
	"pest_marketplace/internal/middleware"
	"pest_marketplace/internal/migrations"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/redis"
	"pest_marketplace/internal/repository"
	"pest_marketplace/internal/services"
	"pest_marketplace/pkg/classifier"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize classifier client
	classifierClient := classifier.NewClient(cfg.ClassifierAPIURL, time.Duration(cfg.ClassifierTimeout)*time.Second)

	// Initialize repositories and stores
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	orderStore := repository.NewOrderStore(redisClient)
	notificationStore := repository.NewNotificationStore(redisClient)

	// Initialize services
	userService := services.NewUserService(userRepo)
	listingService := services.NewListingService(listingRepo, cfg.UploadDir)
	notificationService := services.NewNotificationService(notificationStore)
	orderService := services.NewOrderService(orderStore, redisClient, notificationService)
	classificationService := services.NewClassificationService(classifierClient)

	// Initialize middleware and handlers
	auth := middleware.NewAuthMiddleware(cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Second, redisClient)
	authHandler := handlers.NewAuthHandler(userService, auth, redisClient, time.Duration(cfg.SessionTTL)*time.Second)
	orderHandler := handlers.NewOrderHandler(orderService, userService, listingService)
	listingHandler := handlers.NewListingHandler(listingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(userService, orderService)
	classifyHandler := handlers.NewClassifyHandler(classificationService)

	// Setup routes
	router := gin.Default()
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/services", listingHandler.PublicList)

		authed := api.Group("", auth.Authenticate())
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/profile", authHandler.Profile)
			authed.POST("/classify", classifyHandler.Classify)

			authed.POST("/orders", auth.RequireRole(models.RoleFarmer), orderHandler.Create)
			authed.GET("/orders", orderHandler.List)
			authed.GET("/orders/pending-count", orderHandler.PendingCount)
			authed.GET("/orders/:id", orderHandler.Get)
			authed.PUT("/orders/:id/status", orderHandler.UpdateStatus)
			authed.DELETE("/orders/:id", orderHandler.Delete)

			authed.GET("/notifications", notificationHandler.List)
			authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			authed.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			authed.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			authed.DELETE("/notifications", notificationHandler.ClearAll)

			company := authed.Group("/company", auth.RequireRole(models.RoleCompany))
			{
				company.GET("/services", listingHandler.CompanyList)
				company.POST("/services", listingHandler.Create)
				company.PUT("/services/:id", listingHandler.Update)
				company.DELETE("/services/:id", listingHandler.Delete)
				company.POST("/services/:id/image", listingHandler.UploadImage)
			}

			admin := authed.Group("/admin", auth.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.PUT("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)
				admin.GET("/reports", adminHandler.Reports)
			}
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
