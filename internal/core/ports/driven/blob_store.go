package driven

import "context"

// BlobStore archives the raw bytes of each edition so they can be re-hashed
// against their custody record later.
type BlobStore interface {
	// Put stores data under key, overwriting any previous object
	Put(ctx context.Context, key string, data []byte, mimeType string) error

	// Get returns domain.ErrNotFound when the key does not exist
	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}
