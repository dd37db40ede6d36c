package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore archives edition bytes in a BYTEA table. It is the blob backend
// when BLOB_BACKEND=postgres, for deployments without object storage.
type BlobStore struct {
	db *DB
}

// NewBlobStore creates a new BlobStore
func NewBlobStore(db *DB) *BlobStore {
	return &BlobStore{db: db}
}

// Put stores data under key, overwriting any previous object
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, mimeType string) error {
	query := `
		INSERT INTO edition_blobs (key, data, mime_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			data = EXCLUDED.data,
			mime_type = EXCLUDED.mime_type,
			created_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query, key, data, mimeType)
	return err
}

// Get returns domain.ErrNotFound when the key does not exist
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM edition_blobs WHERE key = $1`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes an object; deleting a missing key is not an error
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM edition_blobs WHERE key = $1`, key)
	return err
}

// Exists reports whether key is stored
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM edition_blobs WHERE key = $1)`, key).Scan(&exists)
	return exists, err
}
