package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
	"givora.backend/pkg/utils"
)

// MaxImageSize bounds a single uploaded image
const MaxImageSize = 5 << 20

var (
	// ErrImageTooLarge is returned when an upload exceeds MaxImageSize
	ErrImageTooLarge = fmt.Errorf("%w: image must be 5MB or smaller", domainerrors.ErrInvalidInput)
	// ErrNotAnImage is returned when the upload content is not an image
	ErrNotAnImage = fmt.Errorf("%w: file must be a jpeg, png, gif or webp image", domainerrors.ErrInvalidInput)
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// readImage loads an upload and detects its content type from the bytes
func readImage(upload *entities.Upload) ([]byte, string, error) {
	if upload == nil || upload.Content == nil {
		return nil, "", errors.New("storage: upload is required")
	}
	if upload.Size > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(upload.Content, MaxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("storage: read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, "", ErrImageTooLarge
	}
	contentType := http.DetectContentType(data)
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, "", ErrNotAnImage
	}
	return data, contentType, nil
}

// newKey builds "<folder>/<uuidv7><ext>"
func newKey(folder, contentType string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	return path.Join(folder, utils.GenerateUUIDv7().String()+imageExtensions[contentType])
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
