package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/maskline/backend/internal/config"
	"github.com/maskline/backend/internal/handlers"
	"github.com/maskline/backend/internal/middleware"
	"github.com/maskline/backend/internal/models"
	"github.com/maskline/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	provider := services.NewTwilioProvider(cfg)
	authService := services.NewAuthService(db, redisClient, cfg)
	userService := services.NewUserService(db)
	verificationService := services.NewVerificationService(db, cfg, provider)
	relayService := services.NewRelayService(db, cfg, provider)
	vcardService := services.NewVCardService(db, cfg)

	// Periodic cleanup of expired refresh tokens
	go func() {
		for {
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Refresh token cleanup error: %v", err)
			}
			time.Sleep(1 * time.Hour)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	realPhoneHandler := handlers.NewRealPhoneHandler(verificationService)
	relayNumberHandler := handlers.NewRelayNumberHandler(relayService)
	vcardHandler := handlers.NewVCardHandler(vcardService)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Non-sensitive runtime configuration for clients
		api.GET("/runtime_data", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"phone_country":        cfg.PhoneCountry,
				"suggestion_page_size": cfg.SuggestionPageSize,
				"search_result_limit":  cfg.SearchResultLimit,
			})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
		}

		// Real phone verification (requires auth + phone service)
		realphone := api.Group("/realphone")
		realphone.Use(middleware.Auth(authService))
		realphone.Use(middleware.PhoneService(userService))
		{
			realphone.GET("/", realPhoneHandler.GetRealPhone)
			realphone.POST("/", middleware.VerifyRateLimit(redisClient, cfg), realPhoneHandler.SubmitNumber)
			realphone.PATCH("/:id/", middleware.VerifyRateLimit(redisClient, cfg), realPhoneHandler.SubmitVerificationCode)
		}

		// Relay number search and assignment (requires auth + phone service)
		relaynumber := api.Group("/relaynumber")
		relaynumber.Use(middleware.Auth(authService))
		relaynumber.Use(middleware.PhoneService(userService))
		{
			relaynumber.GET("/", relayNumberHandler.GetRelayNumber)
			relaynumber.POST("/", relayNumberHandler.AssignNumber)
			relaynumber.GET("/suggestions/", relayNumberHandler.Suggestions)
			relaynumber.GET("/search/", relayNumberHandler.Search)
		}

		// Contact card lookup is anonymous; the unguessable key is the gate
		api.GET("/vCard/:lookup_key", vcardHandler.GetContactCard)
		api.GET("/vCard/:lookup_key/qr.pdf", vcardHandler.GetContactCardQRPDF)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
