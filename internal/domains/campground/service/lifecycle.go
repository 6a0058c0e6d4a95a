package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campground-backend/internal/config"
	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/domains/campground/repository"
	"campground-backend/internal/infrastructure/storage"
	"campground-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	errImageRequired    = errors.New("image is required")
	errIncompleteUpload = errors.New("image store returned an incomplete result")
)

// LifecycleService điều phối image store + repository cho create/update/delete.
// Thứ tự luôn là remote trước, local sau. Không rollback giữa hai bên.
type LifecycleService struct {
	repo      repository.CampgroundRepository
	images    storage.ImageStore
	processor *storage.ImageProcessor
	guard     OwnershipGuard
	cache     cache.Cache      // nil → không cache
	jobs      ImageJobEnqueuer // nil → không tạo thumbnail
	cfg       config.CampgroundConfig
	now       func() time.Time
}

func NewLifecycleService(
	repo repository.CampgroundRepository,
	images storage.ImageStore,
	processor *storage.ImageProcessor,
	cache cache.Cache,
	jobs ImageJobEnqueuer,
	cfg config.CampgroundConfig,
) *LifecycleService {
	return &LifecycleService{
		repo:      repo,
		images:    images,
		processor: processor,
		cache:     cache,
		jobs:      jobs,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ========================================
// CREATE
// ========================================

func (s *LifecycleService) Create(
	ctx context.Context,
	principal model.Principal,
	req model.CreateCampgroundRequest,
	upload *model.ImageUpload,
) (uuid.UUID, error) {
	if principal.ID == uuid.Nil {
		return uuid.Nil, model.NewLifecycleError(model.ErrUnauthorized, model.StepAuthorize, nil)
	}

	// Validate toàn bộ trước khi gọi ra ngoài, payload lỗi không để lại ảnh mồ côi
	if upload == nil || len(upload.Data) == 0 {
		return uuid.Nil, model.NewLifecycleError(model.ErrValidation, model.StepValidate, errImageRequired)
	}
	if err := req.Validate(); err != nil {
		return uuid.Nil, model.NewLifecycleError(model.ErrValidation, model.StepValidate, err)
	}
	contentType, err := s.processor.ValidateImage(upload.Data)
	if err != nil {
		return uuid.Nil, model.NewLifecycleError(model.ErrValidation, model.StepValidate, err)
	}

	image, err := s.uploadImage(ctx, upload.Data, contentType)
	if err != nil {
		return uuid.Nil, model.NewLifecycleError(model.ErrRemoteStore, model.StepUploadImage, err)
	}

	campground := &model.Campground{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Author:      principal.Snapshot(),
		CreatedAt:   s.now(),
	}
	campground.SetImage(image)

	repoCtx, cancel := s.repoContext(ctx)
	id, err := s.repo.Insert(repoCtx, campground)
	cancel()
	if err != nil {
		log.Warn().
			Err(err).
			Str("image_handle", image.Handle).
			Msg("[Campground] insert failed, uploaded image is orphaned")
		return uuid.Nil, model.NewLifecycleError(model.ErrRepository, model.StepInsertCampground, err)
	}

	log.Info().
		Str("campground_id", id.String()).
		Str("author_id", principal.ID.String()).
		Msg("[Campground] created")

	invalidateCampgroundCache(ctx, s.cache, uuid.Nil)
	s.enqueueThumbnail(ctx, image.Handle)

	return id, nil
}

// ========================================
// UPDATE
// ========================================

// Update ghi đè name/price/description. Nếu có ảnh mới: xóa ảnh cũ rồi mới upload ảnh mới.
// Upload hỏng sau khi đã xóa thì record vẫn trỏ vào ảnh cũ (đã mất) cho tới lần update sau.
func (s *LifecycleService) Update(
	ctx context.Context,
	principal model.Principal,
	id uuid.UUID,
	req model.UpdateCampgroundRequest,
	upload *model.ImageUpload,
) (*model.Campground, error) {
	existing, err := s.findForMutation(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, model.NewLifecycleError(model.ErrValidation, model.StepValidate, err)
	}

	var contentType string
	hasNewImage := upload != nil && len(upload.Data) > 0
	if hasNewImage {
		contentType, err = s.processor.ValidateImage(upload.Data)
		if err != nil {
			return nil, model.NewLifecycleError(model.ErrValidation, model.StepValidate, err)
		}
	}

	patch := &model.CampgroundPatch{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}

	if hasNewImage {
		if err := s.deleteImage(ctx, existing.ImageHandle); err != nil {
			return nil, model.NewLifecycleError(model.ErrRemoteStore, model.StepDeleteOldImage, err)
		}

		image, err := s.uploadImage(ctx, upload.Data, contentType)
		if err != nil {
			log.Warn().
				Err(err).
				Str("campground_id", id.String()).
				Str("image_handle", existing.ImageHandle).
				Msg("[Campground] old image deleted but new upload failed, record references a removed image")
			return nil, model.NewLifecycleError(model.ErrRemoteStore, model.StepUploadNewImage, err)
		}
		patch.Image = &image
	}

	repoCtx, cancel := s.repoContext(ctx)
	updated, err := s.repo.UpdateByID(repoCtx, id, patch)
	cancel()
	if err != nil {
		if patch.Image != nil {
			log.Warn().
				Err(err).
				Str("campground_id", id.String()).
				Str("image_handle", patch.Image.Handle).
				Msg("[Campground] update failed, new image is orphaned")
		}
		if errors.Is(err, model.ErrCampgroundNotFound) {
			return nil, model.NewLifecycleError(model.ErrNotFound, model.StepUpdateCampground, err)
		}
		return nil, model.NewLifecycleError(model.ErrRepository, model.StepUpdateCampground, err)
	}

	log.Info().
		Str("campground_id", id.String()).
		Bool("image_replaced", patch.Image != nil).
		Msg("[Campground] updated")

	invalidateCampgroundCache(ctx, s.cache, id)
	if patch.Image != nil {
		s.enqueueThumbnail(ctx, patch.Image.Handle)
	}

	return updated, nil
}

// ========================================
// DELETE
// ========================================

// Delete xóa ảnh remote trước. Remote lỗi → giữ nguyên record.
func (s *LifecycleService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	existing, err := s.findForMutation(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.deleteImage(ctx, existing.ImageHandle); err != nil {
		return model.NewLifecycleError(model.ErrRemoteStore, model.StepDeleteImage, err)
	}

	repoCtx, cancel := s.repoContext(ctx)
	err = s.repo.DeleteByID(repoCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, model.ErrCampgroundNotFound) {
			return model.NewLifecycleError(model.ErrNotFound, model.StepDeleteCampground, err)
		}
		return model.NewLifecycleError(model.ErrRepository, model.StepDeleteCampground, err)
	}

	log.Info().
		Str("campground_id", id.String()).
		Str("principal_id", principal.ID.String()).
		Msg("[Campground] deleted")

	invalidateCampgroundCache(ctx, s.cache, id)
	return nil
}

// GetForEdit trả về campground hiện tại nếu principal được phép sửa
func (s *LifecycleService) GetForEdit(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Campground, error) {
	return s.findForMutation(ctx, principal, id)
}

// ========================================
// HELPERS
// ========================================

func (s *LifecycleService) findForMutation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Campground, error) {
	repoCtx, cancel := s.repoContext(ctx)
	existing, err := s.repo.FindByID(repoCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, model.ErrCampgroundNotFound) {
			return nil, model.NewLifecycleError(model.ErrNotFound, model.StepFindCampground, err)
		}
		return nil, model.NewLifecycleError(model.ErrRepository, model.StepFindCampground, err)
	}

	if !s.guard.MayMutate(principal, existing) {
		return nil, model.NewLifecycleError(model.ErrUnauthorized, model.StepAuthorize, nil)
	}
	return existing, nil
}

func (s *LifecycleService) uploadImage(ctx context.Context, data []byte, contentType string) (model.ImageRef, error) {
	remoteCtx, cancel := withTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	uploaded, err := s.images.Upload(remoteCtx, data, contentType)
	if err != nil {
		return model.ImageRef{}, err
	}

	ref := model.ImageRef{URL: uploaded.URL, Handle: uploaded.Handle}
	if !ref.IsComplete() {
		return model.ImageRef{}, errIncompleteUpload
	}
	return ref, nil
}

func (s *LifecycleService) deleteImage(ctx context.Context, handle string) error {
	if handle == "" {
		return fmt.Errorf("campground has no image handle")
	}

	remoteCtx, cancel := withTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	return s.images.Delete(remoteCtx, handle)
}

// enqueueThumbnail: lỗi chỉ log, mutation đã thành công
func (s *LifecycleService) enqueueThumbnail(ctx context.Context, handle string) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueProcessImage(ctx, handle); err != nil {
		log.Warn().Err(err).Str("image_handle", handle).Msg("[Campground] failed to enqueue thumbnail job")
	}
}

func (s *LifecycleService) repoContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.cfg.RepoTimeout)
}

// withTimeout: d <= 0 → không đặt deadline
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
