package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ProviderConfig is the connection material for one provider. It is built
// once at startup by Resolve and never mutated.
type ProviderConfig struct {
	Provider ProviderID

	// Endpoint is the host (MinIO) or custom base URL (S3-compatible).
	Endpoint string
	// Region is the signing region. Unused by GCS.
	Region string

	AccessKeyID     string
	SecretAccessKey string

	// CredentialsFile is the service-account JSON path (GCS only).
	CredentialsFile string
	// ProjectID is the GCS project (GCS only).
	ProjectID string

	// Bucket is the bucket the provider is scoped to.
	Bucket string

	UseSSL         bool
	ForcePathStyle bool
}

// Environment variable names read by Resolve.
const (
	EnvAWSRegion         = "AWS_REGION"
	EnvAWSAccessKeyID    = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey      = "AWS_SECRET_ACCESS_KEY"
	EnvAWSBucket         = "AWS_S3_BUCKET"
	EnvAWSEndpoint       = "AWS_S3_ENDPOINT"
	EnvAWSForcePathStyle = "AWS_S3_FORCE_PATH_STYLE"

	EnvMinioEndpoint  = "MINIO_ENDPOINT"
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
	EnvMinioBucket    = "MINIO_BUCKET"
	EnvMinioRegion    = "MINIO_REGION"
	EnvMinioUseSSL    = "MINIO_USE_SSL"

	EnvGCSProjectID       = "GCS_PROJECT_ID"
	EnvGCSCredentialsFile = "GCS_CREDENTIALS_FILE"
	EnvGCSBucket          = "GCS_BUCKET"
)

// DefaultMinioRegion is used for MinIO signing when MINIO_REGION is unset.
// Setting a region up front keeps presigning local instead of asking the
// server for the bucket location.
const DefaultMinioRegion = "us-east-1"

// RequiredEnv returns the variables that must be present for id.
func RequiredEnv(id ProviderID) []string {
	switch id {
	case ProviderS3:
		return []string{EnvAWSRegion, EnvAWSAccessKeyID, EnvAWSSecretKey, EnvAWSBucket}
	case ProviderMinio:
		return []string{EnvMinioEndpoint, EnvMinioAccessKey, EnvMinioSecretKey, EnvMinioBucket}
	case ProviderGCS:
		return []string{EnvGCSProjectID, EnvGCSCredentialsFile, EnvGCSBucket}
	default:
		return nil
	}
}

// MissingEnvError lists the required variables that were absent or blank.
type MissingEnvError struct {
	Provider ProviderID
	Missing  []string
}

// Error implements the error interface.
func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s config: missing environment variables: %s",
		e.Provider, strings.Join(e.Missing, ", "))
}

// Resolve builds the ProviderConfig for id from lookup. Either every
// required variable is present and a complete config is returned, or an
// error is returned and the config must not be used.
func Resolve(id ProviderID, lookup LookupFunc) (ProviderConfig, error) {
	if !id.Valid() {
		return ProviderConfig{}, fmt.Errorf("unsupported provider %q", id)
	}

	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	var missing []string
	for _, key := range RequiredEnv(id) {
		if get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return ProviderConfig{}, &MissingEnvError{Provider: id, Missing: missing}
	}

	cfg := ProviderConfig{Provider: id}
	var err error
	switch id {
	case ProviderS3:
		cfg.Region = get(EnvAWSRegion)
		cfg.AccessKeyID = get(EnvAWSAccessKeyID)
		cfg.SecretAccessKey = get(EnvAWSSecretKey)
		cfg.Bucket = get(EnvAWSBucket)
		cfg.Endpoint = get(EnvAWSEndpoint)
		cfg.ForcePathStyle, err = parseBool(EnvAWSForcePathStyle, get(EnvAWSForcePathStyle))
	case ProviderMinio:
		cfg.Endpoint = get(EnvMinioEndpoint)
		cfg.AccessKeyID = get(EnvMinioAccessKey)
		cfg.SecretAccessKey = get(EnvMinioSecretKey)
		cfg.Bucket = get(EnvMinioBucket)
		cfg.Region = get(EnvMinioRegion)
		if cfg.Region == "" {
			cfg.Region = DefaultMinioRegion
		}
		cfg.UseSSL, err = parseBool(EnvMinioUseSSL, get(EnvMinioUseSSL))
	case ProviderGCS:
		cfg.ProjectID = get(EnvGCSProjectID)
		cfg.CredentialsFile = get(EnvGCSCredentialsFile)
		cfg.Bucket = get(EnvGCSBucket)
	}
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("%s config: %w", id, err)
	}

	return cfg, nil
}

func parseBool(key, v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(key + ": expected a boolean")
	}
	return b, nil
}
