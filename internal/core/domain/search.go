package domain

import "time"

// SearchMode determines the ranking strategy
type SearchMode string

const (
	SearchModeHybrid   SearchMode = "hybrid"   // embeddings blended with lexical score (default)
	SearchModeSemantic SearchMode = "semantic" // embeddings only
	SearchModeLexical  SearchMode = "lexical"  // lexical heuristics only
)

// RequiresEmbedding returns true if the given search mode requires embedding
func (mode SearchMode) RequiresEmbedding() bool {
	return mode == SearchModeHybrid || mode == SearchModeSemantic
}

// SearchOptions configures a search request
type SearchOptions struct {
	Mode        SearchMode `json:"mode"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	DocumentIDs []string   `json:"document_ids,omitempty"`
	MinScore    float64    `json:"min_score,omitempty"`
	// SortByRelevance ranks with the title/keyword weighted score used by
	// result lists instead of the bounded retrieval score.
	SortByRelevance bool `json:"sort_by_relevance,omitempty"`
}

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Mode:   SearchModeHybrid,
		Limit:  20,
		Offset: 0,
	}
}

// SearchResult represents the result of a search query
type SearchResult struct {
	Query      string         `json:"query"`
	Mode       SearchMode     `json:"mode"`
	Results    []*RankedChunk `json:"results"`
	TotalCount int            `json:"total_count"`
	Took       time.Duration  `json:"took" swaggertype:"integer" example:"1500000"`
}

// RankedChunk represents a search result with relevance score
type RankedChunk struct {
	Chunk      *LegalChunk `json:"chunk"`
	Score      float64     `json:"score"`
	Confidence float64     `json:"confidence,omitempty"`
}

// RelatedSection is a chunk similar to a reference chunk
type RelatedSection struct {
	Chunk      *LegalChunk `json:"chunk"`
	Similarity float64     `json:"similarity"`
}
