package main

import (
	"strconv"

	"campground-backend/internal/config"
	"campground-backend/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

// Config - phần config riêng của worker, bên cạnh app config chung
type Config struct {
	App         *config.Config
	Concurrency int
	HealthAddr  string
}

// loadConfig loads configuration from environment variables
func loadConfig() (*Config, error) {
	appCfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	concurrency, err := strconv.Atoi(utils.GetEnvVariable("WORKER_CONCURRENCY", "10"))
	if err != nil || concurrency <= 0 {
		concurrency = 10
	}

	cfg := &Config{
		App:         appCfg,
		Concurrency: concurrency,
		HealthAddr:  utils.GetEnvVariable("WORKER_HEALTH_ADDR", ":9999"),
	}

	log.Info().
		Str("redis", appCfg.Redis.Host).
		Str("image_store", appCfg.ImageStore.Driver).
		Int("concurrency", cfg.Concurrency).
		Msg("[Config] Worker configuration loaded")

	return cfg, nil
}
