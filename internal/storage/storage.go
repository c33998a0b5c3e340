package storage

import (
	"context"
	"io"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	KeyPrefix   string
	ContentType string
}

// Service stores uploaded files in remote object storage.
type Service interface {
	// Upload writes body under KeyPrefix/name and returns the object location.
	Upload(ctx context.Context, name string, body io.Reader, opts UploadOptions) (string, error)
}
