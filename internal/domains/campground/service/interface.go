package service

import (
	"context"

	"campground-backend/internal/domains/campground/model"

	"github.com/google/uuid"
)

// Lifecycle - create/update/delete giữ record và ảnh remote nhất quán
type Lifecycle interface {
	Create(ctx context.Context, principal model.Principal, req model.CreateCampgroundRequest, upload *model.ImageUpload) (uuid.UUID, error)
	Update(ctx context.Context, principal model.Principal, id uuid.UUID, req model.UpdateCampgroundRequest, upload *model.ImageUpload) (*model.Campground, error)
	Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error
	GetForEdit(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Campground, error)
}

// Query - list có search + pagination, detail kèm comments
type Query interface {
	Search(ctx context.Context, term string, page int) (*model.SearchResult, error)
	Detail(ctx context.Context, id uuid.UUID) (*model.CampgroundDetailResponse, error)
}

// ImageJobEnqueuer - queue.ImageJobQueue implement
type ImageJobEnqueuer interface {
	EnqueueProcessImage(ctx context.Context, handle string) error
}

var (
	_ Lifecycle = (*LifecycleService)(nil)
	_ Query     = (*QueryService)(nil)
)
