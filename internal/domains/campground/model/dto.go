package model

import (
	"errors"
	"time"

	commentModel "campground-backend/internal/domains/comment/model"
	"campground-backend/internal/infrastructure/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoMatchMessage hiển thị khi search không có kết quả
const NoMatchMessage = "No campgrounds match that query, please try again."

// ========================================
// REQUEST DTOs
// ========================================

// CreateCampgroundRequest - POST /campgrounds (multipart, kèm field "image")
type CreateCampgroundRequest struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

func (r CreateCampgroundRequest) Validate() error {
	return validateFields(&r.Name, &r.Price, &r.Description)
}

// UpdateCampgroundRequest - PUT /campgrounds/:id (ảnh optional)
// Name/Price/Description luôn được ghi đè.
type UpdateCampgroundRequest struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

func (r UpdateCampgroundRequest) Validate() error {
	return validateFields(&r.Name, &r.Price, &r.Description)
}

func validateFields(name *string, price *decimal.Decimal, description *string) error {
	return validation.Errors{
		"name": validation.Validate(*name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 200).Error("name must be at most 200 characters"),
		),
		"price": validation.Validate(*price, validation.By(nonNegativeDecimal)),
		"description": validation.Validate(*description,
			validation.RuneLength(0, 5000).Error("description must be at most 5000 characters"),
		),
	}.Filter()
}

// maxPrice: cột price là NUMERIC(10,2) → tối đa 8 chữ số phần nguyên
var maxPrice = decimal.New(1, 8)

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a number")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	if d.GreaterThanOrEqual(maxPrice) {
		return errors.New("must be less than 100000000")
	}
	if !d.Equal(d.Truncate(2)) {
		return errors.New("must have at most 2 decimal places")
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

// CampgroundResponse - không bao giờ chứa image handle.
// ThumbnailURL có thể chưa tồn tại ngay sau khi upload (worker tạo async).
type CampgroundResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Author       Author          `json:"author"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToCampgroundResponse(c Campground) CampgroundResponse {
	resp := CampgroundResponse{
		ID:          c.ID,
		Name:        c.Name,
		Price:       c.Price,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Author:      c.Author,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ImageURL != "" {
		resp.ThumbnailURL = storage.ThumbnailURL(c.ImageURL)
	}
	return resp
}

type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// SearchResult - kết quả của query engine
type SearchResult struct {
	Campgrounds []CampgroundResponse `json:"campgrounds"`
	Pagination  PaginationMeta       `json:"pagination"`
	Search      string               `json:"search,omitempty"`
	NoMatch     string               `json:"no_match,omitempty"`
}

// CampgroundDetailResponse - GET /campgrounds/:id
type CampgroundDetailResponse struct {
	CampgroundResponse
	Comments []commentModel.CommentResponse `json:"comments"`
}

// CreateCampgroundResponse - trả về id mới
type CreateCampgroundResponse struct {
	ID uuid.UUID `json:"id"`
}
