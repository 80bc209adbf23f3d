package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"givora.backend/internal/domain/entities"
	domainerrors "givora.backend/internal/domain/errors"
)

// formUpload opens the multipart file in field. It returns a nil upload when
// the request is not multipart or carries no such file. The caller must call
// the returned release func.
func formUpload(c *gin.Context, field string) (*entities.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, noop, nil
	}

	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, domainerrors.BadRequest("Invalid " + field + " upload")
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, domainerrors.BadRequest("Invalid " + field + " upload")
	}

	return &entities.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, func() { _ = file.Close() }, nil
}

// imageURL renders an optional stored key as a public URL
func imageURL(key string, resolve func(string) string) *string {
	if key == "" {
		return nil
	}
	url := resolve(key)
	return &url
}
