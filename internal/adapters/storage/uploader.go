package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"
)

const msgInvalidImage = "Not valid image file"

// FileUploader publishes local temp files to a bucket and returns their public URL.
type FileUploader struct {
	storage StorageService
	bucket  string
	log     *logger.Logger
}

// NewFileUploader creates an uploader bound to one bucket.
func NewFileUploader(storage StorageService, bucket string, log *logger.Logger) *FileUploader {
	return &FileUploader{storage: storage, bucket: bucket, log: log}
}

// Upload reads the file at localPath and stores it under UploadFolder.
func (u *FileUploader) Upload(ctx context.Context, localPath, originalName, contentType string, size int64) (string, error) {
	if err := u.storage.ValidateContentType(contentType); err != nil {
		return "", apperr.Wrap(apperr.KindNotAcceptable, msgInvalidImage, err)
	}
	if err := u.storage.ValidateFileSize(size); err != nil {
		return "", apperr.Wrap(apperr.KindNotAcceptable, msgInvalidImage, err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", localPath, err)
	}
	defer file.Close()

	key, err := u.storage.UploadFile(ctx, u.bucket, UploadFolder, originalName, contentType, file, size)
	u.log.StorageEvent(u.bucket, key, size, err)
	if err != nil {
		return "", err
	}

	return u.storage.PublicURL(u.bucket, key), nil
}

// Remove deletes the object behind a URL returned by Upload. URLs that do not
// point into this uploader's bucket are ignored.
func (u *FileUploader) Remove(ctx context.Context, publicURL string) error {
	prefix := u.storage.PublicURL(u.bucket, "")
	key, ok := strings.CutPrefix(publicURL, prefix)
	if !ok || key == "" {
		u.log.Warn("skipping removal of foreign object", "bucket", u.bucket, "url", publicURL)
		return nil
	}

	if err := u.storage.DeleteObject(ctx, u.bucket, key); err != nil {
		return err
	}
	u.log.Info("object removed", "bucket", u.bucket, "key", key)
	return nil
}
