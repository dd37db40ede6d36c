// Package blob archives the raw bytes of each edition on the local
// filesystem, in S3, or in any S3-compatible object store.
package blob

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Backend names accepted by New
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config selects and configures a blob backend
type Config struct {
	Backend string

	// LocalPath is the root directory of the local backend
	LocalPath string

	S3 S3Config
}

// New creates the configured BlobStore
func New(ctx context.Context, cfg Config) (driven.BlobStore, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStore(cfg.LocalPath)
	case BackendS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", cfg.Backend)
	}
}
