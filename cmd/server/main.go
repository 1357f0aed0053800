package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Luck-shya/WorkIndia/internal/auth"
	"github.com/Luck-shya/WorkIndia/internal/config"
	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/Luck-shya/WorkIndia/internal/handlers"
	"github.com/Luck-shya/WorkIndia/internal/reservation"
	"github.com/Luck-shya/WorkIndia/internal/router"
	"github.com/Luck-shya/WorkIndia/internal/service"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// Connect to database
	log.Println("Connecting to database...")
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	repo := database.NewRepository(pool)
	engine := reservation.NewEngine(repo)
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	bookingService := service.NewBookingService(repo, engine, tokens)

	// Initialize handlers
	h := handlers.NewHandler(bookingService)

	// Create router
	r := router.SetupRouter(h, tokens, cfg.AdminAPIKey)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
