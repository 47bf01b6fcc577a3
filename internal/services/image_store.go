package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"fitness/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageStore persists product images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

type s3ImageStore struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

func NewS3ImageStore(cfg *config.S3Config) ImageStore {
	return &s3ImageStore{
		uploader: manager.NewUploader(cfg.Client),
		bucket:   cfg.Bucket,
		baseURL:  cfg.PublicBaseURL,
	}
}

func (s *s3ImageStore) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// productImageKey namespaces uploads per product and keeps the original extension.
func productImageKey(productID, objectID, filename string) string {
	return path.Join("products", productID, objectID+path.Ext(filename))
}
