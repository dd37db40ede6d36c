package domain

// LegalChunk is a retrievable unit of legal text. Chunks are immutable after
// creation except for embedding back-fill, and are regenerated as a whole set
// whenever their document is re-ingested.
type LegalChunk struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"documentId"`
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Keywords   []string      `json:"keywords"`
	Citations  []string      `json:"citations"`
	Embedding  []float32     `json:"embedding,omitempty"`
}

// ChunkMetadata describes where a chunk came from
type ChunkMetadata struct {
	DocumentType DocumentType `json:"type"`
	UnitType     ContentType  `json:"unitType,omitempty"`
	Article      string       `json:"article,omitempty"`
	Title        string       `json:"title"`
	Hierarchy    int          `json:"hierarchy"`
	LegalArea    string       `json:"legalArea"`
	UnitID       string       `json:"unitId,omitempty"`
	ChunkIndex   int          `json:"chunkIndex"`
}

// HasEmbedding reports whether an embedding has been back-filled.
func (c *LegalChunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// IngestionResult summarises one document ingestion
type IngestionResult struct {
	DocumentID     string   `json:"document_id"`
	ChunkCount     int      `json:"chunk_count"`
	EmbeddedCount  int      `json:"embedded_count"`
	Strategy       string   `json:"strategy"`
	EmbeddingError string   `json:"embedding_error,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
