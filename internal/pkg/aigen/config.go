package aigen

import (
	"errors"
	"fmt"
	"time"

	"github.com/HanaSeol/CardMoa/internal/pkg/env"
)

// Config holds AI provider and result storage configuration
type Config struct {
	ProviderURL     string
	ProviderKey     string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string
}

// LoadConfig loads AI generation configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		ProviderURL:     env.GetEnv("AI_PROVIDER_URL", ""),
		ProviderKey:     env.GetEnv("AI_PROVIDER_KEY", ""),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "ap-northeast-2"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
	}

	if config.ProviderURL == "" {
		return nil, errors.New("AI_PROVIDER_URL is required for AI photo generation")
	}
	if config.BucketName == "" {
		return nil, errors.New("S3_BUCKET_NAME is required for AI photo results")
	}

	return config, nil
}

// GetObjectKey generates a standardized S3 object key for a generated photo.
// Format: ai-photos/YYYY/MM/UUID.jpg
func (c *Config) GetObjectKey(photoUUID string, t time.Time, thumbnail bool) string {
	suffix := ""
	if thumbnail {
		suffix = "_thumb"
	}
	return fmt.Sprintf("ai-photos/%04d/%02d/%s%s.jpg", t.Year(), int(t.Month()), photoUUID, suffix)
}

// PublicURL returns the browser-facing URL for an object key
func (c *Config) PublicURL(objectKey string) string {
	base := c.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.BucketName, c.Region)
	}
	return base + "/" + objectKey
}
