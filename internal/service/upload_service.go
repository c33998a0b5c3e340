package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"campushub/internal/domain"
	"campushub/internal/storage"
)

// ErrStorageDisabled is returned when no upload bucket is configured.
var ErrStorageDisabled = errors.New("storage service not configured")

// UploadService stores files attached by signed-in users.
type UploadService interface {
	Upload(ctx context.Context, author domain.Identity, filename, contentType string, body io.Reader) (string, error)
}

type uploadService struct {
	store storage.Service
	opts  storage.UploadOptions
}

// NewUploadService returns a service writing to store; a nil store or empty
// bucket disables uploads.
func NewUploadService(store storage.Service, opts storage.UploadOptions) UploadService {
	return &uploadService{store: store, opts: opts}
}

func (s *uploadService) Upload(ctx context.Context, author domain.Identity, filename, contentType string, body io.Reader) (string, error) {
	if s.store == nil || s.opts.Bucket == "" {
		return "", ErrStorageDisabled
	}
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("file name is required: %w", domain.ErrInvalidInput)
	}

	opts := s.opts
	opts.ContentType = contentType
	name := fmt.Sprintf("%d/%s/%s", author.ID, uuid.NewString(), base)
	return s.store.Upload(ctx, name, body, opts)
}
