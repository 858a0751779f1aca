// Package validator holds the pre-issuance checks applied to uploads.
package validator

import (
	"fmt"
	"strings"

	"github.com/cloudrelay/uploader/internal/apperr"
)

// DefaultMaxUploadSize is the largest declared upload accepted.
const DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB

// DefaultAllowedMimeTypes is the image whitelist for uploads.
var DefaultAllowedMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// UploadPolicy defines constraints for file uploads.
type UploadPolicy struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// DefaultUploadPolicy returns the image-only, 10MB policy.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxFileSize:      DefaultMaxUploadSize,
		AllowedMimeTypes: DefaultAllowedMimeTypes,
	}
}

// FileName trims name and rejects it when empty.
func FileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Input("fileName is required")
	}
	return name, nil
}

// NormalizeMimeType lowercases mimeType and strips parameters
// (e.g. "image/png; charset=binary" becomes "image/png").
func NormalizeMimeType(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}

// ValidateMimeType checks mimeType against the whitelist and returns its
// normalized form.
func (p UploadPolicy) ValidateMimeType(mimeType string) (string, error) {
	normalized := NormalizeMimeType(mimeType)
	if normalized == "" {
		return "", apperr.Input("fileType is required")
	}
	if !p.AllowedMimeTypes[normalized] {
		return "", apperr.Inputf("file type %q is not allowed, only images are accepted", normalized)
	}
	return normalized, nil
}

// ValidateFileSize checks a declared size against the ceiling.
func (p UploadPolicy) ValidateFileSize(size int64) error {
	if size < 0 {
		return apperr.Input("fileSize must not be negative")
	}
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return apperr.Inputf("file too large: %d bytes exceeds the %s limit", size, formatBytes(p.MaxFileSize))
	}
	return nil
}

func formatBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
