package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"campground-backend/internal/infrastructure/storage"
	"campground-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ProcessImageHandler tạo thumbnail cho ảnh campground vừa upload
type ProcessImageHandler struct {
	store     storage.ObjectStore
	processor *storage.ImageProcessor
}

func NewProcessImageHandler(store storage.ObjectStore, processor *storage.ImageProcessor) *ProcessImageHandler {
	return &ProcessImageHandler{
		store:     store,
		processor: processor,
	}
}

// ProcessTask: download ảnh gốc → fit 400x400 → put vào ThumbnailKey(handle)
func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessImage payload")
		// payload hỏng thì retry cũng vô ích
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Handle == "" {
		return fmt.Errorf("empty image handle: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("handle", payload.Handle).
		Msg("Processing campground thumbnail")

	original, err := h.store.Download(ctx, payload.Handle)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			// ảnh đã bị xóa/thay trước khi job chạy
			log.Warn().Str("handle", payload.Handle).Msg("Original image is gone, skipping thumbnail")
			return nil
		}
		return fmt.Errorf("download original: %w", err)
	}

	thumb, err := h.processor.Thumbnail(original)
	if err != nil {
		log.Error().
			Err(err).
			Str("handle", payload.Handle).
			Msg("Failed to build thumbnail")
		return fmt.Errorf("build thumbnail: %v: %w", err, asynq.SkipRetry)
	}

	url, err := h.store.Put(ctx, storage.ThumbnailKey(payload.Handle), thumb, "image/jpeg")
	if err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	log.Info().
		Str("handle", payload.Handle).
		Str("thumbnail_url", url).
		Msg("Campground thumbnail processed successfully")

	return nil
}
