// Package storage uploads generated files, such as leaderboard exports, to
// an S3 compatible bucket.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key string
	// Location is the public URL of the object, empty if the bucket has no
	// public base URL.
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
