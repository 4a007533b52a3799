package storage

import (
	"context"
	"io"
)

// Driver is the backend that keeps answer photos. The API writes each photo
// once when a non-conformity is recorded and serves it read-only afterwards.
type Driver interface {
	// Upload writes a photo under path.
	// Returns the storage path and the public URL clients use to fetch it.
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)

	// Delete removes a photo. Used as the compensating action when the
	// answer insert fails after the photo was already written.
	Delete(ctx context.Context, path string) error

	// GetPublicURL returns the public URL for a stored photo.
	GetPublicURL(path string) string

	// Exists checks if a photo exists in storage.
	Exists(ctx context.Context, path string) (bool, error)

	// GetReader returns a reader for the photo, used by the thumbnailer.
	GetReader(ctx context.Context, path string) (io.ReadCloser, error)
}

// Config holds the storage configuration
type Config struct {
	Driver string // local, s3

	// Local filesystem
	UploadsPath string

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string
}
