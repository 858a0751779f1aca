// Package files is the direct (non-presigned) file management API: list,
// delete, download through the backend and multipart upload.
package files

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/apperr"
	"github.com/cloudrelay/uploader/internal/storage"
	"github.com/cloudrelay/uploader/internal/validator"
)

// Upload is a file received by the backend for a direct upload.
type Upload struct {
	FileName    string
	ContentType string
	// Size is the byte count, -1 when unknown.
	Size int64
	Body io.Reader
}

// Service contains file management logic shared by every provider.
type Service struct {
	registry *storage.Registry
	policy   validator.UploadPolicy
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a files Service.
func NewService(registry *storage.Registry, policy validator.UploadPolicy, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		policy:   policy,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns every object the provider reports in one listing, in
// provider order.
func (s *Service) List(ctx context.Context, provider string) ([]storage.ObjectSummary, error) {
	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return nil, err
	}

	objects, err := adapter.List(ctx)
	if err != nil {
		return nil, s.fail("list files", provider, "", err)
	}
	if objects == nil {
		objects = []storage.ObjectSummary{}
	}
	return objects, nil
}

// Delete removes key after checking that it exists and returns the key that
// was deleted.
func (s *Service) Delete(ctx context.Context, provider, key string) (string, error) {
	key, err := validator.FileName(key)
	if err != nil {
		return "", err
	}
	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return "", err
	}

	exists, err := adapter.Exists(ctx, key)
	if err != nil {
		return "", s.fail("check file existence", provider, key, err)
	}
	if !exists {
		return "", apperr.NotFound("delete file", provider, key, storage.ErrNotFound)
	}

	if err := adapter.Delete(ctx, key); err != nil {
		return "", s.fail("delete file", provider, key, err)
	}

	s.logger.Info("file deleted",
		zap.String("provider", provider),
		zap.String("key", key))
	return key, nil
}

// Get opens key for streaming through the backend. The caller closes Body.
func (s *Service) Get(ctx context.Context, provider, key string) (*storage.Object, error) {
	key, err := validator.FileName(key)
	if err != nil {
		return nil, err
	}
	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return nil, err
	}

	obj, err := adapter.Get(ctx, key)
	if err != nil {
		return nil, s.fail("download file", provider, key, err)
	}
	return obj, nil
}

// Upload validates u and stores it under a timestamp-prefixed key, which is
// returned.
func (s *Service) Upload(ctx context.Context, provider string, u Upload) (string, error) {
	name, err := validator.FileName(u.FileName)
	if err != nil {
		return "", err
	}
	contentType, err := s.policy.ValidateMimeType(u.ContentType)
	if err != nil {
		return "", err
	}
	if u.Size >= 0 {
		if err := s.policy.ValidateFileSize(u.Size); err != nil {
			return "", err
		}
	}

	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return "", err
	}

	key := storage.UploadKey(s.now(), name)
	if err := adapter.Put(ctx, key, u.Body, u.Size, contentType); err != nil {
		return "", s.fail("upload file", provider, key, err)
	}

	s.logger.Info("file uploaded",
		zap.String("provider", provider),
		zap.String("key", key),
		zap.Int64("size", u.Size))
	return key, nil
}

// fail logs a provider error and classifies it.
func (s *Service) fail(op, provider, key string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(op, provider, key, err)
	}
	s.logger.Error(op+" failed",
		zap.String("provider", provider),
		zap.String("key", key),
		zap.Error(err))
	return apperr.Provider(op, provider, key, err)
}
