package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage implements Adapter for Google Cloud Storage. URLs are V4 signed
// with the service account's private key.
type GCSStorage struct {
	client     *gcs.Client
	bucket     string
	accessID   string
	privateKey []byte
	now        func() time.Time
}

var _ Adapter = (*GCSStorage)(nil)

// NewGCSStorage reads the service-account file named by cfg and creates a
// client authenticated with it.
func NewGCSStorage(ctx context.Context, cfg ProviderConfig) (*GCSStorage, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, gcs.ScopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("parse service account file: %w", err)
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON(data))
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return newGCSStorage(client, cfg.Bucket, jwtCfg.Email, jwtCfg.PrivateKey), nil
}

func newGCSStorage(client *gcs.Client, bucket, accessID string, privateKey []byte) *GCSStorage {
	return &GCSStorage{
		client:     client,
		bucket:     bucket,
		accessID:   accessID,
		privateKey: privateKey,
		now:        time.Now,
	}
}

// Sign produces a V4 signed URL. Uploads are bound to contentType when given,
// so the browser must send the same Content-Type header.
func (s *GCSStorage) Sign(_ context.Context, op Operation, key, contentType string, ttl time.Duration) (string, error) {
	switch op {
	case OpUpload, OpDownload, OpDelete:
	default:
		return "", fmt.Errorf("unsupported operation %q", op)
	}

	opts := &gcs.SignedURLOptions{
		GoogleAccessID: s.accessID,
		PrivateKey:     s.privateKey,
		Method:         op.Method(),
		Expires:        s.now().Add(ttl),
		Scheme:         gcs.SigningSchemeV4,
	}
	if op == OpUpload {
		opts.ContentType = contentType
	}

	u, err := gcs.SignedURL(s.bucket, key, opts)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return u, nil
}

// List iterates the bucket and returns every object in name order.
func (s *GCSStorage) List(ctx context.Context) ([]ObjectSummary, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, nil)

	var objects []ObjectSummary
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		objects = append(objects, ObjectSummary{
			Name:         attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}

// Exists checks key by fetching its attributes.
func (s *GCSStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("object attrs: %w", err)
	}
	return true, nil
}

// Delete removes key.
func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		return gcsError("delete object", err)
	}
	return nil
}

// Get opens key for streaming.
func (s *GCSStorage) Get(ctx context.Context, key string) (*Object, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, gcsError("read object", err)
	}
	return &Object{
		Body:        r,
		ContentType: r.Attrs.ContentType,
		Size:        r.Attrs.Size,
	}, nil
}

// Put streams r to key. size is advisory; the writer chunks the upload.
// A failing reader aborts the upload so no truncated object is committed.
func (s *GCSStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		// Close after cancel discards the upload instead of finalizing it.
		cancel()
		_ = w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func gcsError(op string, err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
