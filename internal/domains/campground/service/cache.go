package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"campground-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	listCachePattern  = "campgrounds:list:*"
	detailCachePrefix = "campgrounds:detail:"
)

// listCacheKey: campgrounds:list:<page>:<sha1(term)>
func listCacheKey(term string, page int) string {
	sum := sha1.Sum([]byte(term))
	return fmt.Sprintf("campgrounds:list:%d:%s", page, hex.EncodeToString(sum[:]))
}

func detailCacheKey(id uuid.UUID) string {
	return detailCachePrefix + id.String()
}

// invalidateCampgroundCache xóa list cache và detail cache của id (nếu có).
// Lỗi cache chỉ log, không fail request.
func invalidateCampgroundCache(ctx context.Context, c cache.Cache, id uuid.UUID) {
	if c == nil {
		return
	}

	if err := c.DeletePattern(ctx, listCachePattern); err != nil {
		log.Warn().Err(err).Msg("[Campground] failed to invalidate list cache")
	}
	if id != uuid.Nil {
		if err := c.Delete(ctx, detailCacheKey(id)); err != nil {
			log.Warn().Err(err).Str("campground_id", id.String()).Msg("[Campground] failed to invalidate detail cache")
		}
	}
}
