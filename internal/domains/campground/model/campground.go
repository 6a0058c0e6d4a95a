package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Author là snapshot của user tạo campground, copy tại thời điểm tạo.
// Sửa profile sau đó không cập nhật ngược lại các campground cũ.
type Author struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
}

// Principal - user đang thực hiện request (do auth middleware cung cấp)
type Principal struct {
	ID          uuid.UUID
	Username    string
	Description string
	IsAdmin     bool
}

// Snapshot chụp lại thông tin author từ principal
func (p Principal) Snapshot() Author {
	return Author{
		ID:          p.ID,
		Username:    p.Username,
		Description: p.Description,
	}
}

// ImageRef - cặp (public URL, deletion handle) luôn đi cùng nhau
type ImageRef struct {
	URL    string
	Handle string
}

// IsComplete: cả hai field đều có giá trị
func (r ImageRef) IsComplete() bool {
	return r.URL != "" && r.Handle != ""
}

// Campground entity
type Campground struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	ImageHandle string          `json:"-"` // chỉ dùng để xóa ảnh trên remote store
	Author      Author          `json:"author"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Image trả về cặp reference/handle hiện tại
func (c *Campground) Image() ImageRef {
	return ImageRef{URL: c.ImageURL, Handle: c.ImageHandle}
}

// SetImage thay cả cặp reference/handle cùng lúc
func (c *Campground) SetImage(ref ImageRef) {
	c.ImageURL = ref.URL
	c.ImageHandle = ref.Handle
}

// CampgroundPatch - những gì update được phép thay đổi.
// Author và CreatedAt không bao giờ nằm trong patch.
type CampgroundPatch struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Image       *ImageRef // nil = giữ nguyên ảnh
}

// SortOrder cho Query
type SortOrder int

const (
	// SortNewest: created_at DESC, id DESC
	SortNewest SortOrder = iota
)

// QueryOptions - filter + sort + window cho repository Query
type QueryOptions struct {
	NameContains string // literal, case-insensitive
	Sort         SortOrder
	Skip         int
	Limit        int
}

// ImageUpload - binary ảnh đã đọc hết vào memory
type ImageUpload struct {
	Filename string
	Data     []byte
}
