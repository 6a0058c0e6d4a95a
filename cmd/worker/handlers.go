package main

import (
	"github.com/hibiken/asynq"

	campgroundJob "campground-backend/internal/domains/campground/job"
	"campground-backend/internal/infrastructure/storage"
	"campground-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processCampgroundImage *campgroundJob.ProcessImageHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(store storage.ObjectStore, cfg *Config) *HandlerRegistry {
	processor := storage.NewImageProcessor(cfg.App.Campground.MaxImageBytes)

	return &HandlerRegistry{
		processCampgroundImage: campgroundJob.NewProcessImageHandler(store, processor),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessCampgroundImage, h.processCampgroundImage.ProcessTask)
}
