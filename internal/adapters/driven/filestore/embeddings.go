package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

const (
	embeddingsDir      = "embeddings"
	embeddingIndexFile = "index.json"

	// DefaultEmbeddingBatchSize is the number of records per batch file
	DefaultEmbeddingBatchSize = 500
)

func batchFileName(n int) string {
	return fmt.Sprintf("embeddings-%03d.json", n)
}

// WriteEmbeddings writes records as numbered batch files plus index.json
// into dir. Batch files left over from a larger previous export are removed.
func WriteEmbeddings(dir, model string, batchSize int, records []domain.EmbeddingRecord, now time.Time) (*domain.EmbeddingIndex, error) {
	if batchSize <= 0 {
		batchSize = DefaultEmbeddingBatchSize
	}

	dims := 0
	for _, r := range records {
		if dims == 0 {
			dims = len(r.Embedding)
		}
		if len(r.Embedding) != dims || dims == 0 {
			return nil, fmt.Errorf("%w: chunk %s has %d dimensions, expected %d", domain.ErrInvalidInput, r.ChunkID, len(r.Embedding), dims)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	batches := 0
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if err := writeJSON(filepath.Join(dir, batchFileName(batches)), records[start:end]); err != nil {
			return nil, fmt.Errorf("write batch %d: %w", batches, err)
		}
		batches++
	}

	index := &domain.EmbeddingIndex{
		Version:     CorpusVersion,
		Model:       model,
		Dimensions:  dims,
		BatchCount:  batches,
		TotalChunks: len(records),
		BatchSize:   batchSize,
		CreatedAt:   now,
	}
	if err := writeJSON(filepath.Join(dir, embeddingIndexFile), index); err != nil {
		return nil, fmt.Errorf("write embeddings index: %w", err)
	}

	if err := removeStaleBatches(dir, batches); err != nil {
		return nil, err
	}
	return index, nil
}

// ReadEmbeddings loads index.json and every batch it declares. A missing
// batch or a record count that disagrees with the index is an error.
func ReadEmbeddings(dir string) (*domain.EmbeddingIndex, []domain.EmbeddingRecord, error) {
	var index domain.EmbeddingIndex
	if err := readJSON(filepath.Join(dir, embeddingIndexFile), &index); err != nil {
		return nil, nil, fmt.Errorf("read embeddings index: %w", err)
	}

	records := make([]domain.EmbeddingRecord, 0, index.TotalChunks)
	for n := 0; n < index.BatchCount; n++ {
		var batch []domain.EmbeddingRecord
		if err := readJSON(filepath.Join(dir, batchFileName(n)), &batch); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", batchFileName(n), err)
		}
		records = append(records, batch...)
	}

	if len(records) != index.TotalChunks {
		return nil, nil, fmt.Errorf("%w: index declares %d embeddings, batches hold %d", domain.ErrIntegrity, index.TotalChunks, len(records))
	}
	return &index, records, nil
}

func removeStaleBatches(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "embeddings-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(name, "embeddings-%d.json", &n); err != nil || n < keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ExportEmbeddings writes every back-filled chunk embedding of the corpus
// into embeddings/
func (s *Store) ExportEmbeddings(ctx context.Context, model string, batchSize int) (*domain.EmbeddingIndex, error) {
	chunks, err := s.Chunks().List(ctx, nil)
	if err != nil {
		return nil, err
	}

	var records []domain.EmbeddingRecord
	for _, c := range chunks {
		if !c.HasEmbedding() {
			continue
		}
		records = append(records, domain.EmbeddingRecord{ChunkID: c.ID, DocumentID: c.DocumentID, Embedding: c.Embedding})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := WriteEmbeddings(filepath.Join(s.root, embeddingsDir), model, batchSize, records, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("exported embeddings", "chunks", index.TotalChunks, "batches", index.BatchCount)
	return index, nil
}

// ImportEmbeddings reads embeddings/ and attaches the vectors to the
// matching chunks. Records for unknown chunks are ignored.
func (s *Store) ImportEmbeddings(ctx context.Context) (*domain.EmbeddingIndex, error) {
	s.mu.RLock()
	index, records, err := ReadEmbeddings(filepath.Join(s.root, embeddingsDir))
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	vectors := make(map[string][]float32, len(records))
	for _, r := range records {
		vectors[r.ChunkID] = r.Embedding
	}
	if err := s.Chunks().SetEmbeddings(ctx, vectors); err != nil {
		return nil, err
	}
	return index, nil
}
