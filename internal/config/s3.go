// internal/config/s3.go
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the product image bucket settings
type S3Config struct {
	Client *s3.Client
	Bucket string
	// PublicBaseURL prefixes object keys in stored image URLs. Defaults to the
	// virtual-hosted bucket URL.
	PublicBaseURL string
}

// NewS3Config creates a new S3 configuration. It returns nil without error when
// S3_BUCKET_NAME is unset, which disables image uploads.
func NewS3Config(ctx context.Context) (*S3Config, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		return nil, nil
	}
	region := getEnv("AWS_REGION", "us-east-1")

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			key,
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := os.Getenv("S3_ENDPOINT")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		}
	})

	base := os.Getenv("S3_PUBLIC_BASE_URL")
	if base == "" {
		if endpoint != "" {
			base = strings.TrimRight(endpoint, "/") + "/" + bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	return &S3Config{
		Client:        client,
		Bucket:        bucket,
		PublicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}
