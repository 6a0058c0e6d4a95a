package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge       = errors.New("image exceeds maximum size")
	ErrNotAnImage          = errors.New("only image files are allowed")
	ErrUnsupportedImageFmt = errors.New("image must be jpg, jpeg, png or gif")
)

const thumbnailSize = 400

var allowedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024 // 5MB
	}
	return &ImageProcessor{MaxSize: maxSize}
}

// ValidateImage kiểm tra size + decode header, trả về content type
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotAnImage
	}
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("%w (%dMB)", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	contentType, ok := allowedFormats[format]
	if !ok {
		return "", fmt.Errorf("%w (got %s)", ErrUnsupportedImageFmt, format)
	}
	return contentType, nil
}

// Thumbnail fit ảnh vào 400x400 và encode JPEG chất lượng 85
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
