package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"
)

type fakeStorage struct {
	uploaded    map[string][]byte
	deleted     []string
	contentType string
	uploadErr   error
	maxSize     int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}, maxSize: 1 << 20}
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, folder, fileName, contentType string, reader io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := objectKey(folder, fileName)
	f.uploaded[bucket+"/"+key] = data
	f.contentType = contentType
	return key, nil
}

func (f *fakeStorage) PublicURL(bucket, fileKey string) string {
	return "https://cdn.example.com/" + bucket + "/" + fileKey
}

func (f *fakeStorage) DeleteObject(_ context.Context, bucket, fileKey string) error {
	f.deleted = append(f.deleted, bucket+"/"+fileKey)
	return nil
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (f *fakeStorage) ValidateContentType(contentType string) error     { return validateContentType(contentType) }
func (f *fakeStorage) ValidateFileSize(size int64) error                { return validateFileSize(size, f.maxSize) }

func TestValidateContentType(t *testing.T) {
	for _, ok := range []string{"image/png", "IMAGE/JPEG", "image/webp; charset=binary"} {
		if err := validateContentType(ok); err != nil {
			t.Errorf("expected %q to be allowed: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "text/plain", "application/pdf", "image/svg+xml"} {
		if err := validateContentType(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 10); err == nil {
		t.Fatalf("expected empty file to be rejected")
	}
	if err := validateFileSize(11, 10); err == nil {
		t.Fatalf("expected oversize file to be rejected")
	}
	if err := validateFileSize(10, 10); err != nil {
		t.Fatalf("expected file at limit to pass: %v", err)
	}
}

func TestObjectKeyKeepsExtensionUnderFolder(t *testing.T) {
	key := objectKey(UploadFolder, "poster.final.png")
	if !strings.HasPrefix(key, "public/uploads/poster.final_") {
		t.Fatalf("unexpected key %q", key)
	}
	if filepath.Ext(key) != ".png" {
		t.Fatalf("expected .png extension, got %q", key)
	}
	if objectKey(UploadFolder, "poster.png") == objectKey(UploadFolder, "poster.png") {
		t.Fatalf("expected unique keys for the same file name")
	}
}

func TestFileUploaderUploadsAndReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "tmp-upload")
	if err := os.WriteFile(localPath, []byte("png-bytes"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	fake := newFakeStorage()
	uploader := NewFileUploader(fake, "film-posters", logger.NewWithWriter("test", io.Discard))

	url, err := uploader.Upload(context.Background(), localPath, "inception.png", "image/png", 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/film-posters/public/uploads/inception_") {
		t.Fatalf("unexpected url %q", url)
	}
	if len(fake.uploaded) != 1 {
		t.Fatalf("expected one stored object, got %d", len(fake.uploaded))
	}
	for _, data := range fake.uploaded {
		if !bytes.Equal(data, []byte("png-bytes")) {
			t.Fatalf("unexpected stored bytes %q", data)
		}
	}
	if fake.contentType != "image/png" {
		t.Fatalf("expected content type to be forwarded, got %q", fake.contentType)
	}
}

func TestFileUploaderRejectsNonImage(t *testing.T) {
	uploader := NewFileUploader(newFakeStorage(), "film-posters", logger.NewWithWriter("test", io.Discard))

	_, err := uploader.Upload(context.Background(), "/does/not/matter", "notes.txt", "text/plain", 4)
	if !apperr.Is(err, apperr.KindNotAcceptable) {
		t.Fatalf("expected not acceptable error, got %v", err)
	}
}

func TestFileUploaderPropagatesStorageFailure(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "tmp-upload")
	if err := os.WriteFile(localPath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	fake := newFakeStorage()
	fake.uploadErr = errors.New("bucket unavailable")
	uploader := NewFileUploader(fake, "film-posters", logger.NewWithWriter("test", io.Discard))

	if _, err := uploader.Upload(context.Background(), localPath, "a.png", "image/png", 1); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

func TestFileUploaderRemove(t *testing.T) {
	fake := newFakeStorage()
	uploader := NewFileUploader(fake, "film-posters", logger.NewWithWriter("test", io.Discard))

	url := "https://cdn.example.com/film-posters/public/uploads/inception_1a2b3c4d.png"
	if err := uploader.Remove(context.Background(), url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "film-posters/public/uploads/inception_1a2b3c4d.png" {
		t.Fatalf("unexpected deletions %v", fake.deleted)
	}

	for _, foreign := range []string{"https://elsewhere.example.com/x.png", "https://cdn.example.com/film-posters/"} {
		if err := uploader.Remove(context.Background(), foreign); err != nil {
			t.Fatalf("remove %q: %v", foreign, err)
		}
	}
	if len(fake.deleted) != 1 {
		t.Fatalf("foreign urls must not be deleted, got %v", fake.deleted)
	}
}
