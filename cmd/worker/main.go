// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"campground-backend/pkg/container"
	"campground-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] Failed to load")
	}

	// Worker chỉ cần image store, không cần DB
	store, err := container.NewImageStore(context.Background(), cfg.App)
	if err != nil {
		log.Fatal().Err(err).Msg("[Storage] Failed to initialize")
	}

	// Initialize handlers
	handlers := initializeHandlers(store, cfg)

	// Perform health checks before consuming tasks
	if err := startServices(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Setup Asynq server
	srv := setupAsynqServer(cfg, handlers)

	// Wait for shutdown signal
	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	srv.Shutdown()
	log.Info().Msg("[Shutdown] ✓ Stopped")
}
