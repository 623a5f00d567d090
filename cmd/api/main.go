package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/database"
	"github.com/snapdish/backend/internal/middleware"
	"github.com/snapdish/backend/internal/server"
	"github.com/snapdish/backend/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Environment: %s", config.GetEnvironment())
	if cfg.Debug && config.IsProduction() {
		log.Println("Warning: debug mode is enabled in production")
	}

	analysisService, err := service.NewGeminiService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	srv := server.New(cfg, analysisService, newCounterStore(cfg))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s:%s (debug=%v)...", cfg.ServerHost, cfg.ServerPort, cfg.Debug)
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// newCounterStore picks the rate-limit backend: Redis when configured so the
// limit holds across instances, the in-process store otherwise.
func newCounterStore(cfg *config.Config) middleware.CounterStore {
	if cfg.RedisConfigured() {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Redis unavailable, falling back to in-memory rate limiting: %v", err)
			return middleware.NewMemoryCounterStore()
		}
		return middleware.NewRedisCounterStore(client)
	}

	log.Println("Redis not configured, using in-memory rate limiting (single instance only)")
	return middleware.NewMemoryCounterStore()
}
