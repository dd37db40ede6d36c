package domain

import "time"

// CorpusMetadata is the corpus-level index file
type CorpusMetadata struct {
	Version        string        `json:"version"`
	BuildDate      time.Time     `json:"buildDate"`
	TotalDocuments int           `json:"totalDocuments"`
	Documents      []CorpusEntry `json:"documents"`
}

// CorpusEntry summarises one document in the corpus index
type CorpusEntry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        DocumentType `json:"type"`
	Hierarchy   int          `json:"hierarchy"`
	PrimaryArea string       `json:"primaryArea"`
	Source      string       `json:"source"`
	Size        int64        `json:"size"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// EmbeddingIndex is the index.json of an embeddings directory
type EmbeddingIndex struct {
	Version     string    `json:"version"`
	Model       string    `json:"model,omitempty"`
	Dimensions  int       `json:"dimensions"`
	BatchCount  int       `json:"batchCount"`
	TotalChunks int       `json:"totalChunks"`
	BatchSize   int       `json:"batchSize"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EmbeddingRecord is one entry of an embeddings-NNN.json batch
type EmbeddingRecord struct {
	ChunkID    string    `json:"chunkId"`
	DocumentID string    `json:"documentId"`
	Embedding  []float32 `json:"embedding"`
}
