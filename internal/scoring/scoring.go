// Package scoring holds the lexical relevance heuristics used when no
// embedding service is configured, and as the tie-breaker when one is.
//
// Two query scores are exposed and must not be merged:
//   - ScoreQuery is bounded to [0, 1] and is used for thresholded retrieval.
//   - RelevanceSortScore adds title and keyword boosts and is unbounded; it
//     is only used to order results when a caller asks for relevance sort.
package scoring

import (
	"math"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/textutil"
)

const (
	// SubstringBonus is added when the whole query occurs in the text
	SubstringBonus = 0.5
	// TitleBoost is added by RelevanceSortScore when the title contains the query
	TitleBoost = 0.8
	// KeywordBoost is added by RelevanceSortScore per matching keyword
	KeywordBoost = 5.0
)

// ScoreQuery scores text against query in [0, 1]: SubstringBonus for a
// caseless substring match plus 1/n for each of the n distinct query words
// found among the text's words. An empty query scores 0.
func ScoreQuery(query, text string) float64 {
	q := collapse(query)
	if q == "" {
		return 0
	}

	score := 0.0
	folded := collapse(text)
	if strings.Contains(folded, q) {
		score += SubstringBonus
	}

	queryWords := textutil.WordSet(query)
	if len(queryWords) > 0 {
		textWords := textutil.WordSet(text)
		per := 1.0 / float64(len(queryWords))
		for w := range queryWords {
			if _, ok := textWords[w]; ok {
				score += per
			}
		}
	}

	return math.Min(score, 1.0)
}

// RelevanceSortScore is ScoreQuery over the chunk content plus TitleBoost
// when the chunk title contains the query and KeywordBoost for every chunk
// keyword that matches the query. A keyword matches when it appears in the
// query as whole words or the query appears inside it.
func RelevanceSortScore(query string, chunk *domain.LegalChunk) float64 {
	if chunk == nil {
		return 0
	}
	q := collapse(query)
	if q == "" {
		return 0
	}

	score := ScoreQuery(query, chunk.Content)
	if strings.Contains(collapse(chunk.Metadata.Title), q) {
		score += TitleBoost
	}

	paddedQuery := textutil.Padded(query)
	for _, kw := range chunk.Keywords {
		folded := collapse(kw)
		if folded == "" {
			continue
		}
		if strings.Contains(paddedQuery, textutil.Padded(kw)) || strings.Contains(folded, q) {
			score += KeywordBoost
		}
	}
	return score
}

// Similarity is the Jaccard index of the folded word sets of a and b.
// Two texts without words have similarity 0.
func Similarity(a, b string) float64 {
	setA := textutil.WordSet(a)
	setB := textutil.WordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// Cosine is the cosine similarity of two embeddings. Vectors of different
// length or with zero norm score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// collapse folds s and squeezes whitespace runs so substring tests ignore
// line wrapping.
func collapse(s string) string {
	return strings.Join(strings.Fields(textutil.Fold(s)), " ")
}
