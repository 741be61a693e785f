package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/oukeidos/imgtrans/internal/apperrors"
	"github.com/oukeidos/imgtrans/internal/httpclient"
)

const (
	BackendGCS   = "gcs"
	BackendMinIO = "minio"
)

// Config is resolved once at startup and passed down explicitly.
type Config struct {
	BucketName      string `envconfig:"GCS_BUCKET_NAME"`
	TargetLanguage  string `envconfig:"TRANSLATE_LANGUAGE" default:"English"`
	DetectModel     string `envconfig:"GENERAL_LLM_MODEL" default:"gemini-2.0-flash"`
	ImageModel      string `envconfig:"IMAGE_MODEL"`
	ImageResolution string `envconfig:"IMAGE_RESOLUTION" default:"2K"`

	// FallbackLanguage is returned when language detection fails. The
	// default reflects the source catalog: Korean marketing images.
	FallbackLanguage string `envconfig:"FALLBACK_SOURCE_LANGUAGE" default:"Korean"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"gcs"`
	MinIO        MinIO

	GoogleCloudProject  string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	GoogleCloudLocation string `envconfig:"GOOGLE_CLOUD_LOCATION" default:"global"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
}

// MinIO holds settings for S3-compatible buckets.
type MinIO struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"true"`
}

// LoadEnvFile overlays KEY=VALUE pairs from path onto the process
// environment. File values win over variables already set. A missing file
// is not an error; the returned bool reports whether a file was read.
func LoadEnvFile(path string) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return true, nil
}

// Load reads the configuration from the environment without validating it.
// Each command validates the fields it needs.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, apperrors.New(apperrors.KindConfig, fmt.Sprintf("Invalid environment: %v", err), err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = httpclient.DefaultTimeout
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	return &cfg, nil
}

// ValidateRun checks what a full bucket run needs.
func (c *Config) ValidateRun() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	return c.ValidateTranslate()
}

// ValidateStore checks the object-store settings.
func (c *Config) ValidateStore() error {
	if strings.TrimSpace(c.BucketName) == "" {
		return apperrors.Config("GCS_BUCKET_NAME environment variable is required")
	}
	switch c.StoreBackend {
	case BackendGCS:
	case BackendMinIO:
		if strings.TrimSpace(c.MinIO.Endpoint) == "" {
			return apperrors.Config("MINIO_ENDPOINT is required when STORE_BACKEND=minio")
		}
	default:
		return apperrors.Config(fmt.Sprintf("unsupported STORE_BACKEND %q (supported: gcs, minio)", c.StoreBackend))
	}
	return nil
}

// ValidateTranslate checks the model settings.
func (c *Config) ValidateTranslate() error {
	if strings.TrimSpace(c.ImageModel) == "" {
		return apperrors.Config("IMAGE_MODEL environment variable is required")
	}
	if strings.TrimSpace(c.TargetLanguage) == "" {
		return apperrors.Config("TRANSLATE_LANGUAGE must not be empty")
	}
	return nil
}
