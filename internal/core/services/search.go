package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/ports/driving"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/runtime"
	"github.com/custodia-labs/lexcore/internal/scoring"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

const (
	// semanticWeight is the share of cosine similarity in hybrid scores
	semanticWeight = 0.7

	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	defaultRelatedLimit = 5
)

// SearchConfig holds the dependencies of the search service.
type SearchConfig struct {
	Chunks   driven.ChunkStore
	Services *runtime.Services

	// Lineages and Tracker are optional; when both are set every result
	// carries the effective confidence of its document.
	Lineages driven.LineageStore
	Tracker  *lineage.Tracker

	Logger *slog.Logger
}

type searchService struct {
	chunks   driven.ChunkStore
	services *runtime.Services
	lineages driven.LineageStore
	tracker  *lineage.Tracker
	logger   *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(cfg SearchConfig) driving.SearchService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		chunks:   cfg.Chunks,
		services: cfg.Services,
		lineages: cfg.Lineages,
		tracker:  cfg.Tracker,
		logger:   logger,
	}
}

// Search ranks stored chunks against query.
func (s *searchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	if opts.Limit > maxSearchLimit {
		opts.Limit = maxSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	mode := s.services.Config().Resolve(opts.Mode)

	var queryEmbedding []float32
	if mode.RequiresEmbedding() {
		queryEmbedding = s.embedQuery(ctx, query)
		if queryEmbedding == nil {
			mode = domain.SearchModeLexical
		}
	}

	chunks, err := s.chunks.List(ctx, opts.DocumentIDs)
	if err != nil {
		return nil, err
	}

	ranked := make([]*domain.RankedChunk, 0, len(chunks))
	for _, c := range chunks {
		score := s.score(query, queryEmbedding, c, mode, opts.SortByRelevance)
		if score <= 0 || score < opts.MinScore {
			continue
		}
		ranked = append(ranked, &domain.RankedChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Chunk.ID < ranked[j].Chunk.ID
	})

	total := len(ranked)
	page := ranked[min(opts.Offset, total):min(opts.Offset+opts.Limit, total)]
	s.attachConfidence(ctx, page)

	return &domain.SearchResult{
		Query:      query,
		Mode:       mode,
		Results:    page,
		TotalCount: total,
		Took:       time.Since(start),
	}, nil
}

// RelatedSections ranks other chunks by similarity to the given one, using
// embeddings when both sides have them and word overlap otherwise.
func (s *searchService) RelatedSections(ctx context.Context, chunkID string, limit int) ([]domain.RelatedSection, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	ref, err := s.chunks.Get(ctx, chunkID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.chunks.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	related := make([]domain.RelatedSection, 0, limit)
	for _, c := range candidates {
		if c.ID == ref.ID {
			continue
		}
		var sim float64
		if ref.HasEmbedding() && c.HasEmbedding() {
			sim = scoring.Cosine(ref.Embedding, c.Embedding)
		} else {
			sim = scoring.Similarity(ref.Content, c.Content)
		}
		if sim > 0 {
			related = append(related, domain.RelatedSection{Chunk: c, Similarity: sim})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Similarity != related[j].Similarity {
			return related[i].Similarity > related[j].Similarity
		}
		return related[i].Chunk.ID < related[j].Chunk.ID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

// score combines lexical and semantic evidence for one chunk. Chunks without
// an embedding are scored lexically whatever the mode.
func (s *searchService) score(query string, queryEmbedding []float32, c *domain.LegalChunk, mode domain.SearchMode, byRelevance bool) float64 {
	var lexical float64
	if byRelevance {
		lexical = scoring.RelevanceSortScore(query, c)
	} else {
		lexical = scoring.ScoreQuery(query, c.Content)
	}

	if queryEmbedding == nil || !c.HasEmbedding() {
		return lexical
	}

	semantic := scoring.Cosine(queryEmbedding, c.Embedding)
	switch mode {
	case domain.SearchModeSemantic:
		return semantic
	case domain.SearchModeHybrid:
		return semanticWeight*semantic + (1-semanticWeight)*lexical
	default:
		return lexical
	}
}

func (s *searchService) embedQuery(ctx context.Context, query string) []float32 {
	svc := s.services.EmbeddingService()
	if svc == nil {
		return nil
	}
	embedding, err := svc.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, falling back to lexical search", "error", err)
		return nil
	}
	return embedding
}

func (s *searchService) attachConfidence(ctx context.Context, results []*domain.RankedChunk) {
	if s.lineages == nil || s.tracker == nil {
		return
	}
	byDoc := make(map[string]float64)
	for _, r := range results {
		id := r.Chunk.DocumentID
		conf, seen := byDoc[id]
		if !seen {
			l, err := s.lineages.Get(ctx, id)
			if err == nil {
				conf = s.tracker.ComputeConfidence(l).EffectiveConfidence
			}
			byDoc[id] = conf
		}
		r.Confidence = conf
	}
}
