// api/main.go
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

	"brightlane/api/auth"
	"brightlane/api/config"
	"brightlane/api/database"
	"brightlane/api/handlers"
	"brightlane/api/middleware"
	"brightlane/api/store"
	"brightlane/api/utils"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	// --- Initialize PostgreSQL Database (for content) ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (for analytics events) ---
	chClient, err := database.NewClickHouseDB(database.ClickHouseConfig{
		Host:     cfg.ClickHouseHost,
		Port:     cfg.ClickHousePort,
		Database: cfg.ClickHouseDB,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	contentStore := store.NewContentStore(dbClient.DB)
	analyticsStore := store.NewAnalyticsStore(chClient)

	// --- Initialize Handlers ---
	provider := auth.NewProvider(auth.ProviderConfig{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		AuthURL:      cfg.OAuthAuthURL,
		TokenURL:     cfg.OAuthTokenURL,
		RedirectURL:  cfg.OAuthRedirectURL,
	})
	contentHandlers := handlers.NewContentHandlers(contentStore)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsStore, cfg.IsRelease())
	authHandlers := handlers.NewAuthHandlers(provider, cfg.IsRelease())

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigin))

	r.GET("/health", contentHandlers.Health)

	api := r.Group("/api")
	{
		api.GET("/blog", contentHandlers.ListBlogPosts)
		api.GET("/blog/categories", contentHandlers.GetBlogCategories)
		api.GET("/blog/:slug", contentHandlers.GetBlogPost)
		api.GET("/cases", contentHandlers.ListCaseStudies)
		api.GET("/cases/:slug", contentHandlers.GetCaseStudy)
		api.GET("/modules", contentHandlers.ListModules)
		api.GET("/modules/:slug", contentHandlers.GetModule)

		api.POST("/analytics", analyticsHandlers.TrackEvent)

		api.GET("/auth/callback", authHandlers.Callback)
		api.POST("/logout", authHandlers.Logout)

		// Protected stats routes (dashboard only)
		stats := api.Group("/stats")
		stats.Use(middleware.AuthRequired())
		{
			stats.GET("/event-counts", analyticsHandlers.GetEventCountsOverTime)
			stats.GET("/sessions", analyticsHandlers.GetUniqueSessionsOverTime)
			stats.GET("/top-pages", analyticsHandlers.GetTopPages)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
