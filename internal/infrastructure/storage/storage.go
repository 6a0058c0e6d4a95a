package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ErrObjectNotFound - object không tồn tại trên store (Download)
var ErrObjectNotFound = errors.New("object not found")

// UploadedImage - kết quả upload: URL public + handle để xóa.
// Upload hoặc trả đủ cả hai hoặc trả error.
type UploadedImage struct {
	URL    string
	Handle string
}

// ImageStore là boundary với remote image store, không có local state.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (*UploadedImage, error)
	// Delete xóa ảnh theo handle (kèm rendition thumbnail). Xóa handle đã mất là no-op.
	Delete(ctx context.Context, handle string) error
}

// ObjectStore - thao tác theo key, worker dùng để tạo thumbnail
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Store = ImageStore + ObjectStore, cả MinIO và S3 đều implement
type Store interface {
	ImageStore
	ObjectStore
}

const keyPrefix = "campgrounds"

// NewObjectKey: campgrounds/<ULID>.<ext>
func NewObjectKey(contentType string) string {
	return fmt.Sprintf("%s/%s%s", keyPrefix, ulid.Make().String(), extensionFor(contentType))
}

// ThumbnailKey suy ra key của thumbnail từ handle: campgrounds/<ULID>_thumb.jpg
func ThumbnailKey(handle string) string {
	ext := path.Ext(handle)
	return strings.TrimSuffix(handle, ext) + "_thumb.jpg"
}

// ThumbnailURL suy ra URL thumbnail từ URL ảnh gốc
func ThumbnailURL(imageURL string) string {
	return ThumbnailKey(imageURL)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// joinURL nối base URL và key, bỏ dấu "/" thừa
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
