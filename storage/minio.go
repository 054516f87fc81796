package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/igRoy3/SmartWasteManagement/configs"
)

type MinioStore struct {
	client *minio.Client
	bucket string
}

func newMinioStore(cfg *configs.Config) (*MinioStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required when UPLOAD_BACKEND=minio")
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	object := "reports/" + name
	_, err := s.client.PutObject(ctx, s.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, object), nil
}
