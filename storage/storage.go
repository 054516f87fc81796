// Package storage holds report images. Local disk is the default; MinIO is
// opt-in via UPLOAD_BACKEND=minio.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/igRoy3/SmartWasteManagement/configs"
)

type Store interface {
	// Save writes the object and returns the reference stored on the report
	// (a relative path for local storage, an object URL for MinIO).
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

func New(cfg *configs.Config) (Store, error) {
	switch cfg.UploadBackend {
	case "", "local":
		return &LocalStore{Dir: cfg.UploadDir}, nil
	case "minio":
		return newMinioStore(cfg)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}

type LocalStore struct {
	Dir string
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(s.Dir, "reports", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return path, nil
}
