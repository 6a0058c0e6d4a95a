package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/domains/campground/service"
	"campground-backend/internal/shared/middleware"
	"campground-backend/internal/shared/response"
	"campground-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler - HTTP handler cho /campgrounds
type Handler struct {
	lifecycle     service.Lifecycle
	query         service.Query
	maxImageBytes int64
}

func NewHandler(lifecycle service.Lifecycle, query service.Query, maxImageBytes int64) *Handler {
	return &Handler{
		lifecycle:     lifecycle,
		query:         query,
		maxImageBytes: maxImageBytes,
	}
}

// List - GET /v1/campgrounds?search=&page=
func (h *Handler) List(c *gin.Context) {
	search := c.Query("search")
	page := utils.ParsePage(c.Query("page"))

	result, err := h.query.Search(c.Request.Context(), search, page)
	if model.HandleCampgroundError(c, err) {
		return
	}

	message := "Get campgrounds successfully"
	if result.NoMatch != "" {
		message = result.NoMatch
	}
	response.Success(c, http.StatusOK, message, result)
}

// Show - GET /v1/campgrounds/:id
func (h *Handler) Show(c *gin.Context) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Campground not found")
		return
	}

	detail, err := h.query.Detail(c.Request.Context(), id)
	if model.HandleCampgroundError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get campground successfully", detail)
}

// Create - POST /v1/campgrounds (multipart: name, price, description, image)
func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "You must be signed in first")
		return
	}

	name, price, description, err := h.bindFields(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	upload, err := h.readImage(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	req := model.CreateCampgroundRequest{Name: name, Price: price, Description: description}
	id, err := h.lifecycle.Create(c.Request.Context(), principal, req, upload)
	if model.HandleCampgroundError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Successfully made a new campground!", model.CreateCampgroundResponse{ID: id})
}

// Edit - GET /v1/campgrounds/:id/edit, trả về giá trị hiện tại nếu được phép sửa
func (h *Handler) Edit(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "You must be signed in first")
		return
	}

	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Campground not found")
		return
	}

	campground, err := h.lifecycle.GetForEdit(c.Request.Context(), principal, id)
	if model.HandleCampgroundError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get campground successfully", model.ToCampgroundResponse(*campground))
}

// Update - PUT /v1/campgrounds/:id (multipart, image optional)
func (h *Handler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "You must be signed in first")
		return
	}

	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Campground not found")
		return
	}

	name, price, description, err := h.bindFields(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	upload, err := h.readImage(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	req := model.UpdateCampgroundRequest{Name: name, Price: price, Description: description}
	updated, err := h.lifecycle.Update(c.Request.Context(), principal, id, req, upload)
	if model.HandleCampgroundError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Successfully updated campground!", model.ToCampgroundResponse(*updated))
}

// Delete - DELETE /v1/campgrounds/:id
func (h *Handler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "You must be signed in first")
		return
	}

	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Campground not found")
		return
	}

	if err := h.lifecycle.Delete(c.Request.Context(), principal, id); model.HandleCampgroundError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Successfully deleted campground", nil)
}

// ========================================
// HELPERS
// ========================================

// bindFields đọc name/price/description từ form. Validate nội dung nằm ở service.
func (h *Handler) bindFields(c *gin.Context) (string, decimal.Decimal, string, error) {
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))

	rawPrice := strings.TrimSpace(c.PostForm("price"))
	if rawPrice == "" {
		return "", decimal.Zero, "", errors.New("price is required")
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return "", decimal.Zero, "", errors.New("price must be a number")
	}

	return name, price, description, nil
}

// readImage đọc file "image" vào memory. Không có file → nil.
func (h *Handler) readImage(c *gin.Context) (*model.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid image upload: %w", err)
	}

	if h.maxImageBytes > 0 && fileHeader.Size > h.maxImageBytes {
		return nil, fmt.Errorf("image exceeds maximum size (%dMB)", h.maxImageBytes/(1024*1024))
	}

	data, err := readAll(fileHeader, h.maxImageBytes)
	if err != nil {
		return nil, err
	}

	return &model.ImageUpload{Filename: fileHeader.Filename, Data: data}, nil
}

func readAll(fileHeader *multipart.FileHeader, limit int64) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds maximum size (%dMB)", limit/(1024*1024))
	}
	return data, nil
}
