package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL. Keywords and
// citations are TEXT[] columns; embeddings are DOUBLE PRECISION[].
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

const chunkColumns = `id, document_id, chunk_index, content, metadata, keywords, citations, embedding`

// ReplaceForDocument deletes the old chunk set and inserts the new one in a
// single transaction.
func (s *ChunkStore) ReplaceForDocument(ctx context.Context, documentID string, chunks []*domain.LegalChunk) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM legal_chunks WHERE document_id = $1`, documentID); err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO legal_chunks (`+chunkColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			if chunk.DocumentID != documentID {
				return fmt.Errorf("%w: chunk %s belongs to %s", domain.ErrInvalidInput, chunk.ID, chunk.DocumentID)
			}
			metadata, err := json.Marshal(chunk.Metadata)
			if err != nil {
				return fmt.Errorf("marshal metadata of %s: %w", chunk.ID, err)
			}
			_, err = stmt.ExecContext(ctx,
				chunk.ID,
				chunk.DocumentID,
				chunk.Metadata.ChunkIndex,
				chunk.Content,
				metadata,
				pq.StringArray(orEmpty(chunk.Keywords)),
				pq.StringArray(orEmpty(chunk.Citations)),
				toFloat64Array(chunk.Embedding),
			)
			if err != nil {
				return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
			}
		}

		return nil
	})
}

// Get retrieves a chunk by ID
func (s *ChunkStore) Get(ctx context.Context, id string) (*domain.LegalChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM legal_chunks WHERE id = $1`

	chunk, err := scanChunk(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// GetByDocument retrieves all chunks for a document in chunk order
func (s *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.LegalChunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM legal_chunks
		WHERE document_id = $1
		ORDER BY chunk_index ASC
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunks(rows)
}

// List returns the chunks of the given documents, or every chunk
func (s *ChunkStore) List(ctx context.Context, documentIDs []string) ([]*domain.LegalChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM legal_chunks`
	var args []any
	if len(documentIDs) > 0 {
		query += ` WHERE document_id = ANY($1)`
		args = append(args, pq.Array(documentIDs))
	}
	query += ` ORDER BY document_id ASC, chunk_index ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunks(rows)
}

// SetEmbeddings stores embeddings keyed by chunk ID
func (s *ChunkStore) SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE legal_chunks SET embedding = $1 WHERE id = $2`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for id, vector := range embeddings {
			if _, err := stmt.ExecContext(ctx, toFloat64Array(vector), id); err != nil {
				return fmt.Errorf("update embedding of %s: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteByDocument deletes all chunks for a document
func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM legal_chunks WHERE document_id = $1`, documentID)
	return err
}

func scanChunks(rows *sql.Rows) ([]*domain.LegalChunk, error) {
	var chunks []*domain.LegalChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

func scanChunk(row rowScanner) (*domain.LegalChunk, error) {
	var chunk domain.LegalChunk
	var index int
	var metadata []byte
	var embedding pq.Float64Array

	err := row.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&index,
		&chunk.Content,
		&metadata,
		pq.Array(&chunk.Keywords),
		pq.Array(&chunk.Citations),
		&embedding,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata of %s: %w", chunk.ID, err)
		}
	}
	chunk.Metadata.ChunkIndex = index

	if len(embedding) > 0 {
		chunk.Embedding = make([]float32, len(embedding))
		for i, v := range embedding {
			chunk.Embedding[i] = float32(v)
		}
	}

	return &chunk, nil
}

// toFloat64Array widens an embedding for the DOUBLE PRECISION[] column.
// A nil vector is stored as NULL.
func toFloat64Array(vector []float32) pq.Float64Array {
	if len(vector) == 0 {
		return nil
	}
	out := make(pq.Float64Array, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
