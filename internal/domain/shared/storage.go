package shared

import (
	"context"
	"io"
)

// ObjectStorage stores binary objects such as photos and media files
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// URL returns a link clients can fetch the object from
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
