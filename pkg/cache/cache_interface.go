package cache

import (
	"context"
	"time"
)

// Cache - read-through cache cho list/detail campground.
// Redis ở production, fake trong test. Mọi lỗi cache chỉ được log.
type Cache interface {
	// Get unmarshal JSON vào dest. Miss → (false, nil), dest giữ nguyên.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set marshal value thành JSON, ttl = 0 → không hết hạn
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern xóa mọi key match glob pattern (vd: campgrounds:list:*)
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
