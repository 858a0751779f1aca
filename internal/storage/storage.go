// Package storage defines the provider abstraction for object storage.
// Each cloud provider is a standalone Adapter implementing the same small
// capability set; the S3, MinIO and GCS adapters differ only in which SDK
// calls they make.
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned (wrapped) by adapters when an object does not exist.
var ErrNotFound = errors.New("object not found")

// ProviderID identifies one of the supported cloud providers.
type ProviderID string

const (
	// ProviderS3 is AWS S3.
	ProviderS3 ProviderID = "s3"
	// ProviderMinio is MinIO or any other S3-compatible store.
	ProviderMinio ProviderID = "minio"
	// ProviderGCS is Google Cloud Storage.
	ProviderGCS ProviderID = "gcs"
)

// Providers lists every supported provider in display order.
var Providers = []ProviderID{ProviderS3, ProviderMinio, ProviderGCS}

// String returns the provider id.
func (p ProviderID) String() string {
	return string(p)
}

// Valid reports whether p is a supported provider.
func (p ProviderID) Valid() bool {
	for _, id := range Providers {
		if id == p {
			return true
		}
	}
	return false
}

// Operation is the single action a presigned URL authorizes.
type Operation string

const (
	OpUpload   Operation = "upload"
	OpDownload Operation = "download"
	OpDelete   Operation = "delete"
)

// Fixed validity windows per operation.
const (
	UploadTTL   = 3600 * time.Second
	DownloadTTL = 900 * time.Second
	DeleteTTL   = 300 * time.Second
)

// TTL returns the fixed validity window of a URL for this operation.
func (o Operation) TTL() time.Duration {
	switch o {
	case OpUpload:
		return UploadTTL
	case OpDownload:
		return DownloadTTL
	case OpDelete:
		return DeleteTTL
	default:
		return 0
	}
}

// Method returns the HTTP method the browser uses to redeem the URL.
func (o Operation) Method() string {
	switch o {
	case OpUpload:
		return http.MethodPut
	case OpDelete:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}

// ObjectSummary is the uniform listing projection of a provider object.
type ObjectSummary struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Object is a streamed object body with its metadata. Body must be closed
// by the caller.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	// Size is -1 when the provider did not report it.
	Size int64
}

// Adapter is the capability set every provider implements.
//
// Implementations must be safe for concurrent use and must wrap ErrNotFound
// when the object is absent.
type Adapter interface {
	// Sign mints a URL authorizing exactly op on exactly key for ttl.
	// contentType is only meaningful for uploads and may be empty.
	Sign(ctx context.Context, op Operation, key, contentType string, ttl time.Duration) (string, error)

	// List returns the objects of the configured bucket in provider order.
	List(ctx context.Context) ([]ObjectSummary, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Get opens key for streaming.
	Get(ctx context.Context, key string) (*Object, error)

	// Put streams r to key. size is -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}
