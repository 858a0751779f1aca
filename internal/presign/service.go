// Package presign issues short-lived URLs that let the browser upload,
// download or delete one object directly at the provider.
package presign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/apperr"
	"github.com/cloudrelay/uploader/internal/storage"
	"github.com/cloudrelay/uploader/internal/validator"
)

// Grant is one issued URL. Grants are never stored; the provider's signature
// check is the only enforcement.
type Grant struct {
	ID        string
	URL       string
	Provider  storage.ProviderID
	Operation storage.Operation
	ObjectKey string
	IssuedAt  time.Time
	ExpiresIn time.Duration
}

// ExpiresInSeconds returns the validity window in whole seconds.
func (g *Grant) ExpiresInSeconds() int {
	return int(g.ExpiresIn / time.Second)
}

// UploadRequest describes a file the browser wants to upload.
type UploadRequest struct {
	FileName string
	FileType string
	// FileSize is the declared size in bytes, nil when not declared.
	FileSize *int64
}

// Notice is the browser's best-effort report that an upload finished.
type Notice struct {
	FileName   string
	FileSize   *int64
	UploadTime string
}

// Ack acknowledges a Notice.
type Ack struct {
	Message    string
	FileName   string
	RecordedAt time.Time
}

// Service contains the URL issuing logic shared by every provider.
type Service struct {
	registry *storage.Registry
	policy   validator.UploadPolicy
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for upload keys and issue times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithUploadPolicy overrides the upload type/size policy.
func WithUploadPolicy(p validator.UploadPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// NewService creates a presign Service.
func NewService(registry *storage.Registry, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		policy:   validator.DefaultUploadPolicy(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueUpload validates req and returns a PUT URL for a fresh,
// timestamp-prefixed key.
func (s *Service) IssueUpload(ctx context.Context, provider string, req UploadRequest) (*Grant, error) {
	name, err := validator.FileName(req.FileName)
	if err != nil {
		return nil, err
	}
	contentType, err := s.policy.ValidateMimeType(req.FileType)
	if err != nil {
		return nil, err
	}
	if req.FileSize != nil {
		if err := s.policy.ValidateFileSize(*req.FileSize); err != nil {
			return nil, err
		}
	}

	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return nil, err
	}

	key := storage.UploadKey(s.now(), name)
	return s.sign(ctx, adapter, provider, storage.OpUpload, key, contentType)
}

// IssueDownload returns a GET URL for fileName.
func (s *Service) IssueDownload(ctx context.Context, provider, fileName string) (*Grant, error) {
	key, err := validator.FileName(fileName)
	if err != nil {
		return nil, err
	}

	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return nil, err
	}

	return s.sign(ctx, adapter, provider, storage.OpDownload, key, "")
}

// IssueDelete returns a DELETE URL for fileName. The object must exist at
// issue time; a missing object is reported as not found.
func (s *Service) IssueDelete(ctx context.Context, provider, fileName string) (*Grant, error) {
	key, err := validator.FileName(fileName)
	if err != nil {
		return nil, err
	}

	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		return nil, err
	}

	exists, err := adapter.Exists(ctx, key)
	if err != nil {
		s.logger.Error("existence check failed",
			zap.String("provider", provider),
			zap.String("key", key),
			zap.Error(err))
		return nil, apperr.Provider("check file existence", provider, key, err)
	}
	if !exists {
		return nil, apperr.NotFound("presign delete", provider, key, storage.ErrNotFound)
	}

	return s.sign(ctx, adapter, provider, storage.OpDelete, key, "")
}

func (s *Service) sign(ctx context.Context, adapter storage.Adapter, provider string, op storage.Operation, key, contentType string) (*Grant, error) {
	ttl := op.TTL()
	issuedAt := s.now()

	url, err := adapter.Sign(ctx, op, key, contentType, ttl)
	if err != nil {
		s.logger.Error("presign failed",
			zap.String("provider", provider),
			zap.String("operation", string(op)),
			zap.String("key", key),
			zap.Error(err))
		return nil, apperr.Provider("generate presigned URL", provider, key, err)
	}

	grant := &Grant{
		ID:        s.newID(),
		URL:       url,
		Provider:  storage.ProviderID(provider),
		Operation: op,
		ObjectKey: key,
		IssuedAt:  issuedAt,
		ExpiresIn: ttl,
	}

	s.logger.Info("presigned url issued",
		zap.String("grant_id", grant.ID),
		zap.String("provider", provider),
		zap.String("operation", string(op)),
		zap.String("key", key),
		zap.Int("expires_in", grant.ExpiresInSeconds()))

	return grant, nil
}

// RecordCompletion logs an upload-completion notice. Nothing is persisted and
// the provider is not contacted.
func (s *Service) RecordCompletion(_ context.Context, provider string, n Notice) (*Ack, error) {
	if _, err := s.registry.Client(provider); err != nil {
		return nil, err
	}
	name, err := validator.FileName(n.FileName)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("key", name),
	}
	if n.FileSize != nil {
		fields = append(fields, zap.Int64("size", *n.FileSize))
	}
	if n.UploadTime != "" {
		fields = append(fields, zap.String("upload_time", n.UploadTime))
	}
	s.logger.Info("upload completed", fields...)

	return &Ack{
		Message:    "Upload completion recorded",
		FileName:   name,
		RecordedAt: s.now().UTC(),
	}, nil
}
