package storage

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The signing tests run offline: every adapter signs locally with static
// credentials and an explicit region.

func TestS3StorageSign(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	s, err := NewS3Storage(context.Background(), ProviderConfig{
		Provider:        ProviderS3,
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		Bucket:          "photos",
	})
	require.NoError(t, err)

	tests := []struct {
		op      Operation
		expires string
	}{
		{OpUpload, "3600"},
		{OpDownload, "900"},
		{OpDelete, "300"},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			raw, err := s.Sign(context.Background(), tt.op, "1700000000000-cat.jpg", "image/jpeg", tt.op.TTL())
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Contains(t, u.Host+u.Path, "photos")
			assert.Contains(t, u.Path, "1700000000000-cat.jpg")
			assert.Equal(t, tt.expires, u.Query().Get("X-Amz-Expires"))
			assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
			assert.Contains(t, u.Query().Get("X-Amz-Credential"), "AKIDEXAMPLE")
		})
	}

	_, err = s.Sign(context.Background(), Operation("copy"), "k", "", time.Minute)
	assert.Error(t, err)
}

func TestS3StorageSignTwiceGivesIndependentURLs(t *testing.T) {
	s, err := NewS3Storage(context.Background(), ProviderConfig{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "photos",
		Endpoint:        "http://localhost:4566",
		ForcePathStyle:  true,
	})
	require.NoError(t, err)

	first, err := s.Sign(context.Background(), OpDownload, "a.png", "", DownloadTTL)
	require.NoError(t, err)
	assert.Contains(t, first, "http://localhost:4566/photos/a.png")

	time.Sleep(1100 * time.Millisecond)
	second, err := s.Sign(context.Background(), OpDownload, "a.png", "", DownloadTTL)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestMinioStorageSign(t *testing.T) {
	s, err := NewMinioStorage(ProviderConfig{
		Provider:        ProviderMinio,
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "uploads",
		Region:          DefaultMinioRegion,
	})
	require.NoError(t, err)

	for _, op := range []Operation{OpUpload, OpDownload, OpDelete} {
		t.Run(string(op), func(t *testing.T) {
			raw, err := s.Sign(context.Background(), op, "1700000000000-cat.jpg", "image/jpeg", op.TTL())
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "http", u.Scheme)
			assert.Equal(t, "localhost:9000", u.Host)
			assert.Equal(t, "/uploads/1700000000000-cat.jpg", u.Path)
			assert.Equal(t, formatSeconds(op.TTL()), u.Query().Get("X-Amz-Expires"))
			assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
		})
	}
}

func TestNewMinioStorageRejectsBadEndpoint(t *testing.T) {
	_, err := NewMinioStorage(ProviderConfig{
		Endpoint:        "http://localhost:9000/path",
		AccessKeyID:     "a",
		SecretAccessKey: "s",
		Bucket:          "b",
	})
	assert.Error(t, err)
}

func TestIsMinioNotFound(t *testing.T) {
	assert.False(t, isMinioNotFound(assert.AnError))
}

func testPrivateKey(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func TestGCSStorageSign(t *testing.T) {
	s := newGCSStorage(nil, "gallery", "uploader@demo-project.iam.gserviceaccount.com", testPrivateKey(t))
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	for _, op := range []Operation{OpUpload, OpDownload, OpDelete} {
		t.Run(string(op), func(t *testing.T) {
			raw, err := s.Sign(context.Background(), op, "1700000000000-cat.jpg", "image/jpeg", op.TTL())
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "storage.googleapis.com", u.Host)
			assert.Equal(t, "/gallery/1700000000000-cat.jpg", u.Path)
			assert.Equal(t, formatSeconds(op.TTL()), u.Query().Get("X-Goog-Expires"))
			assert.NotEmpty(t, u.Query().Get("X-Goog-Signature"))
			assert.Contains(t, u.Query().Get("X-Goog-Credential"), "uploader@demo-project.iam.gserviceaccount.com")
		})
	}
}

func TestGCSStorageSignRejectsBadKey(t *testing.T) {
	s := newGCSStorage(nil, "gallery", "uploader@demo-project.iam.gserviceaccount.com", []byte("not a key"))
	_, err := s.Sign(context.Background(), OpDownload, "a.png", "", DownloadTTL)
	assert.Error(t, err)
}

func TestNewGCSStorage(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewGCSStorage(context.Background(), ProviderConfig{
			CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
			Bucket:          "gallery",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read service account file")
	})

	t.Run("ServiceAccount", func(t *testing.T) {
		data, err := json.Marshal(map[string]string{
			"type":           "service_account",
			"project_id":     "demo-project",
			"private_key_id": "abc123",
			"private_key":    string(testPrivateKey(t)),
			"client_email":   "uploader@demo-project.iam.gserviceaccount.com",
			"client_id":      "1234567890",
			"token_uri":      "https://oauth2.googleapis.com/token",
		})
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "key.json")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		s, err := NewGCSStorage(context.Background(), ProviderConfig{
			ProjectID:       "demo-project",
			CredentialsFile: path,
			Bucket:          "gallery",
		})
		require.NoError(t, err)
		assert.Equal(t, "uploader@demo-project.iam.gserviceaccount.com", s.accessID)
		assert.Equal(t, "gallery", s.bucket)
	})
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}
