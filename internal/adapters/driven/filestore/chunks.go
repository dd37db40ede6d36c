package filestore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore keeps each document's chunk set in chunks/{documentID}.json.
// A whole set is written with one rename, which makes replacement atomic.
type ChunkStore struct {
	s *Store
}

// Chunks returns the chunk store of the corpus
func (s *Store) Chunks() *ChunkStore {
	return &ChunkStore{s: s}
}

// ReplaceForDocument swaps the chunk set of a document
func (c *ChunkStore) ReplaceForDocument(ctx context.Context, documentID string, chunks []*domain.LegalChunk) error {
	path, err := c.s.recordPath(chunksDir, documentID)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if chunk.DocumentID != documentID {
			return fmt.Errorf("%w: chunk %s belongs to %s, not %s", domain.ErrInvalidInput, chunk.ID, chunk.DocumentID, documentID)
		}
	}

	set := make([]*domain.LegalChunk, len(chunks))
	copy(set, chunks)
	sort.SliceStable(set, func(i, j int) bool { return set[i].Metadata.ChunkIndex < set[j].Metadata.ChunkIndex })

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return writeJSON(path, set)
}

// Get scans every chunk set for id
func (c *ChunkStore) Get(ctx context.Context, id string) (*domain.LegalChunk, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	docIDs, err := c.s.listIDs(chunksDir)
	if err != nil {
		return nil, err
	}
	for _, docID := range docIDs {
		set, err := c.readSet(docID)
		if err != nil {
			return nil, err
		}
		for _, chunk := range set {
			if chunk.ID == id {
				return chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetByDocument returns a document's chunks in chunk order. A document
// without chunks yields an empty slice.
func (c *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.LegalChunk, error) {
	if _, err := c.s.recordPath(chunksDir, documentID); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.readSet(documentID)
}

// List returns the chunks of documentIDs, or of every document when empty
func (c *ChunkStore) List(ctx context.Context, documentIDs []string) ([]*domain.LegalChunk, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	if len(documentIDs) == 0 {
		var err error
		if documentIDs, err = c.s.listIDs(chunksDir); err != nil {
			return nil, err
		}
	}

	var out []*domain.LegalChunk
	for _, docID := range documentIDs {
		if _, err := c.s.recordPath(chunksDir, docID); err != nil {
			return nil, err
		}
		set, err := c.readSet(docID)
		if err != nil {
			return nil, err
		}
		out = append(out, set...)
	}
	return out, nil
}

// SetEmbeddings rewrites only the chunk sets that contain one of the ids
func (c *ChunkStore) SetEmbeddings(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	docIDs, err := c.s.listIDs(chunksDir)
	if err != nil {
		return err
	}
	for _, docID := range docIDs {
		set, err := c.readSet(docID)
		if err != nil {
			return err
		}
		changed := false
		for _, chunk := range set {
			if vec, ok := embeddings[chunk.ID]; ok {
				chunk.Embedding = vec
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := writeJSON(filepath.Join(c.s.root, chunksDir, docID+".json"), set); err != nil {
			return fmt.Errorf("store embeddings for %s: %w", docID, err)
		}
	}
	return nil
}

// DeleteByDocument removes a chunk set; a missing set is not an error
func (c *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	path, err := c.s.recordPath(chunksDir, documentID)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	_, err = removeFile(path)
	return err
}

// readSet loads chunks/{documentID}.json. Caller holds s.mu.
func (c *ChunkStore) readSet(documentID string) ([]*domain.LegalChunk, error) {
	var set []*domain.LegalChunk
	err := readJSON(filepath.Join(c.s.root, chunksDir, documentID+".json"), &set)
	if errors.Is(err, domain.ErrNotFound) {
		return []*domain.LegalChunk{}, nil
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}
