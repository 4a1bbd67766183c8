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

	"cartfunnel/api/database"
	"cartfunnel/api/handlers"
	"cartfunnel/api/middleware"
	"cartfunnel/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (orders, clicks, users) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (funnel event firehose) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)
	clickStore := store.NewClickStore(dbClient.DB)
	orderStore := store.NewOrderStore(dbClient.DB)

	webhookSecret := os.Getenv("SHOPIFY_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Println("WARNING: SHOPIFY_WEBHOOK_SECRET is not set; webhook signature verification is DISABLED. Do not run like this in production.")
	}

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore, clickStore)
	webhookHandlers := handlers.NewWebhookHandlers(orderStore, clickStore, webhookSecret)
	checkoutHandlers := handlers.NewCheckoutHandlers(orderStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Webhook endpoint sits outside the API-key gate; the HMAC signature
	// over the raw body is its authentication.
	r.POST("/webhooks/shopify/order-created", webhookHandlers.OrderCreated)

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected Routes (require the integration API key or a valid JWT)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			track := protected.Group("/track")
			{
				track.POST("/search-to-cart", trackHandlers.TrackSearchToCart)
				track.POST("/product-click", trackHandlers.TrackProductClick)
				track.GET("/product-clicks/:session_id", trackHandlers.GetProductClicks)
			}

			protected.GET("/checkout-events", checkoutHandlers.ListCheckoutEvents)

			stats := protected.Group("/stats")
			{
				stats.GET("/event-counts", trackHandlers.GetEventCounts)
				stats.GET("/unique-sessions", trackHandlers.GetUniqueSessions)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Funnel API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Funnel API server failed to start: %v", err)
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
