package service

import (
	"campground-backend/internal/domains/campground/model"

	"github.com/google/uuid"
)

// OwnershipGuard quyết định ai được sửa/xóa campground.
// Không cache, gọi lại mỗi lần mutate.
type OwnershipGuard struct{}

// MayMutate: admin hoặc chính author
func (OwnershipGuard) MayMutate(principal model.Principal, c *model.Campground) bool {
	if principal.IsAdmin {
		return true
	}
	if principal.ID == uuid.Nil || c == nil {
		return false
	}
	return principal.ID == c.Author.ID
}
