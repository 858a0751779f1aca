package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Adapter using MinIO or any S3-compatible backend.
// To point it at another S3-compatible service, change MINIO_ENDPOINT and
// credentials; no code changes are needed.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

var _ Adapter = (*MinioStorage)(nil)

// NewMinioStorage creates a MinIO client. The region is set explicitly so the
// client never has to look up the bucket location before presigning.
func NewMinioStorage(cfg ProviderConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Sign presigns a PUT, GET or DELETE request for key.
func (s *MinioStorage) Sign(ctx context.Context, op Operation, key, _ string, ttl time.Duration) (string, error) {
	var (
		u   *url.URL
		err error
	)
	switch op {
	case OpUpload:
		u, err = s.client.PresignedPutObject(ctx, s.bucket, key, ttl)
	case OpDownload:
		u, err = s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	case OpDelete:
		u, err = s.client.Presign(ctx, http.MethodDelete, s.bucket, key, ttl, nil)
	default:
		return "", fmt.Errorf("unsupported operation %q", op)
	}
	if err != nil {
		return "", fmt.Errorf("presign %s %q: %w", op.Method(), key, err)
	}
	return u.String(), nil
}

// List returns every object in the bucket in the order the server lists them.
func (s *MinioStorage) List(ctx context.Context) ([]ObjectSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []ObjectSummary
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		objects = append(objects, ObjectSummary{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// Exists checks key with StatObject.
func (s *MinioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %q: %w", key, err)
	}
	return true, nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return minioError("remove object", key, err)
	}
	return nil
}

// Get opens key for streaming. The object is stat'ed first so a missing key
// fails here rather than on the first read.
func (s *MinioStorage) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError("get object", key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, minioError("get object", key, err)
	}

	return &Object{
		Body:        obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

// Put streams reader to key. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown; MinIO will buffer it).
func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func minioError(op, key string, err error) error {
	if isMinioNotFound(err) {
		return fmt.Errorf("%s %q: %w: %w", op, key, ErrNotFound, err)
	}
	return fmt.Errorf("%s %q: %w", op, key, err)
}

func isMinioNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
