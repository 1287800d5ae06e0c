package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSClient struct {
	client     *storage.Client
	bucketName string
}

// NewGCSClient falls back to application default credentials when credentialsFile is empty
func NewGCSClient(ctx context.Context, bucketName, credentialsFile string) (*GCSClient, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) UploadFile(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	writer := c.client.Bucket(c.bucketName).Object(path).NewWriter(ctx)
	writer.ContentType = file.Header.Get("Content-Type")

	if _, err = io.Copy(writer, src); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to upload to gcs: %w", err)
	}
	// the object is only committed on Close
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to upload to gcs: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, path), nil
}
