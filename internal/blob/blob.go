package blob

import (
	"context"
	"io"
	"time"
)

// Store is the contract the drive core needs from the external blob
// provider. Keys are opaque handles; each call succeeds or fails per key.
type Store interface {
	// Upload streams a blob to the store under key and returns its public URL.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error

	// Rename updates the blob's display name (the filename offered on
	// download). The key itself never changes.
	Rename(ctx context.Context, key, newName string) error

	// PresignGet returns a short-lived download URL for the blob.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
