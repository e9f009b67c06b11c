// Package uploads stores single multipart files on local disk and publishes
// them to object storage before the route handler runs.
package uploads

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextFileKey is the gin context key for the stored temp file.
	ContextFileKey = "file"

	msgInvalidImage = "Not valid image file"
	msgFileTooLarge = "File too large"
)

// Uploader publishes a local file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath, originalName, contentType string, size int64) (string, error)
}

// Config provides the upload limits.
type Config interface {
	GetUploadTempDir() string
	GetMinIOMaxFileSize() int64
}

// StoredFile describes a multipart file saved to the temp directory.
type StoredFile struct {
	FieldName    string
	OriginalName string
	Path         string
	MimeType     string
	Size         int64
}

// ImageData is what downstream handlers receive for a published upload.
type ImageData struct {
	URLOriginal string `json:"urlOriginal"`
	URL         string `json:"url"`
	Mimetype    string `json:"mimetype"`
	Size        int64  `json:"size"`
}

// Middleware builds the upload pipeline stages.
type Middleware struct {
	uploader Uploader
	tempDir  string
	maxSize  int64
	log      *logger.Logger
}

// New creates the upload middleware.
func New(uploader Uploader, cfg Config, log *logger.Logger) *Middleware {
	return &Middleware{
		uploader: uploader,
		tempDir:  cfg.GetUploadTempDir(),
		maxSize:  cfg.GetMinIOMaxFileSize(),
		log:      log,
	}
}

// SingleFileStore saves the multipart file sent under field to the temp
// directory. A request without that file passes through untouched; the temp
// file is removed once the rest of the chain has run.
func (m *Middleware) SingleFileStore(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				c.Next()
				return
			}
			httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, "invalid multipart form", err))
			return
		}

		if m.maxSize > 0 && header.Size > m.maxSize {
			httpkit.Fail(c, apperr.NotAcceptable(msgFileTooLarge))
			return
		}

		target := filepath.Join(m.tempDir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
		if err := c.SaveUploadedFile(header, target); err != nil {
			httpkit.Fail(c, err)
			return
		}
		defer func() {
			if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
				m.log.Warn("failed to remove temp upload", "path", target, "error", err)
			}
		}()

		mimeType := header.Header.Get("Content-Type")
		if detected, err := mimetype.DetectFile(target); err == nil {
			mimeType = detected.String()
		}

		c.Set(ContextFileKey, StoredFile{
			FieldName:    field,
			OriginalName: header.Filename,
			Path:         target,
			MimeType:     mimeType,
			Size:         header.Size,
		})
		c.Next()
	}
}

// SaveDataImage publishes the stored file and exposes its ImageData under the
// form field name. Requests without a stored file are rejected.
func (m *Middleware) SaveDataImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		stored, ok := storedFile(c)
		if !ok {
			httpkit.Fail(c, apperr.NotAcceptable(msgInvalidImage))
			return
		}

		url, err := m.uploader.Upload(c.Request.Context(), stored.Path, stored.OriginalName, stored.MimeType, stored.Size)
		if err != nil {
			httpkit.Fail(c, err)
			return
		}

		c.Set(stored.FieldName, ImageData{
			URLOriginal: stored.OriginalName,
			URL:         url,
			Mimetype:    stored.MimeType,
			Size:        stored.Size,
		})
		c.Next()
	}
}

// GetImageData returns the published upload for field, if any.
func GetImageData(c *gin.Context, field string) (ImageData, bool) {
	value, ok := c.Get(field)
	if !ok {
		return ImageData{}, false
	}
	data, ok := value.(ImageData)
	return data, ok
}

func storedFile(c *gin.Context) (StoredFile, bool) {
	value, ok := c.Get(ContextFileKey)
	if !ok {
		return StoredFile{}, false
	}
	stored, ok := value.(StoredFile)
	return stored, ok
}
