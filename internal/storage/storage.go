// Package storage puts uploaded media into the configured object store.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"social-backend/config"
)

// Storage saves an uploaded file under path and returns its public URL
type Storage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, path string) (string, error)
}

// New builds the backend selected by STORAGE_DRIVER
func New(ctx context.Context, cfg config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.BackendURL+"/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
