// Package storage archives the source files behind processed documents.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/joseph-ayodele/docclassify/internal/common"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

type Storage interface {
	// Put stores the reader's content under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// New picks MinIO when an endpoint is configured and the local upload
// directory otherwise.
func New(cfg common.StorageConfig) (Storage, error) {
	if cfg.MinIOEndpoint != "" {
		return NewMinIO(cfg)
	}
	return NewLocal(cfg.UploadDir)
}
