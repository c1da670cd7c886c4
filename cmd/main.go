package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pieats/internal/auth"
	"pieats/internal/config"
	"pieats/internal/database"
	"pieats/internal/handlers"
	"pieats/internal/jobs"
	"pieats/internal/pinetwork"
	"pieats/internal/services"
	"pieats/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize upload storage
	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize Pi platform client
	platform := pinetwork.NewClient(cfg.Pi.APIKey, cfg.Pi.Sandbox)
	if !platform.Available() {
		log.Println("Warning: PI_API_KEY not set, payment lifecycle calls will fail")
	}

	// Initialize services
	scoreService := services.NewScoreService(database.GetDB())
	actionService := services.NewActionService(database.GetDB(), scoreService)
	userService := services.NewUserService(database.GetDB(), blobs)
	restaurantService := services.NewRestaurantService(database.GetDB(), blobs)
	paymentService := services.NewPaymentService(database.GetDB(), actionService, scoreService, platform)
	rewardService := services.NewRewardService(database.GetDB(), scoreService)
	leaderboardService := services.NewLeaderboardService(database.GetDB())
	authService := services.NewAuthService(userService, paymentService, platform)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, actionService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	rewardHandler := handlers.NewRewardHandler(rewardService, scoreService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Start annual distribution job (checks daily)
	distributionJob := jobs.NewDistributionJob(rewardService)
	distributionJob.Start(24 * time.Hour)
	log.Println("Annual distribution job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded photos and avatars
	router.Static(cfg.Storage.BaseURL, cfg.Storage.UploadDir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	router.POST("/auth/login", authHandler.Login)

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public routes
	router.GET("/api/restaurants", restaurantHandler.GetRestaurants)
	router.GET("/api/restaurants/search", restaurantHandler.SearchRestaurants)
	router.GET("/api/restaurants/:id", restaurantHandler.GetRestaurantByID)
	router.GET("/api/leaderboard/score", leaderboardHandler.GetTopByScore)
	router.GET("/api/leaderboard/pool", leaderboardHandler.GetTopByPoolContribution)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Restaurant endpoints
		api.POST("/restaurants", restaurantHandler.CreateRestaurant)
		api.POST("/restaurants/:id/photos", restaurantHandler.UploadPhoto)
		api.POST("/restaurants/:id/actions", restaurantHandler.RecordAction)

		// Payment lifecycle endpoints
		api.POST("/payments", paymentHandler.InitiatePayment)
		api.GET("/payments", paymentHandler.GetUserPayments)
		api.POST("/payments/:id/approve", paymentHandler.ApprovePayment)
		api.POST("/payments/:id/complete", paymentHandler.CompletePayment)
		api.POST("/payments/:id/cancel", paymentHandler.CancelPayment)

		// Reward endpoints
		api.GET("/rewards/restaurant/:id", rewardHandler.GetRestaurantReward)
		api.GET("/rewards/total", rewardHandler.GetTotalReward)

		// User endpoints
		api.GET("/users/me/score", rewardHandler.GetMyScore)
		api.POST("/users/me/avatar", userHandler.UploadAvatar)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
