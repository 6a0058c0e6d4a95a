package repository

import (
	"context"

	"campground-backend/internal/domains/campground/model"

	"github.com/google/uuid"
)

// CampgroundRepository - data access cho campgrounds.
// FindByID/UpdateByID/DeleteByID trả model.ErrCampgroundNotFound khi không có record.
type CampgroundRepository interface {
	// Insert gán ID mới (UUIDv7) và lưu record
	Insert(ctx context.Context, c *model.Campground) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Campground, error)
	// UpdateByID ghi đè name/price/description, thay cặp ảnh nếu patch.Image != nil.
	// Author và CreatedAt không bao giờ bị đổi.
	UpdateByID(ctx context.Context, id uuid.UUID, patch *model.CampgroundPatch) (*model.Campground, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// Query trả về một window theo opts + tổng số record match filter (không phụ thuộc skip/limit)
	Query(ctx context.Context, opts model.QueryOptions) ([]model.Campground, int, error)
}
