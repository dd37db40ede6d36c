package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func TestScoreQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"empty query", "", "cualquier texto", 0},
		{"whitespace query", "   ", "cualquier texto", 0},
		{"no overlap", "amparo", "el salario mínimo", 0},
		{"one of two words", "salario mínimo", "el salario se paga", 0.5},
		{"all words scattered", "salario mínimo", "mínimo es el salario", 1.0},
		{"substring and words capped", "salario mínimo", "El SALARIO MÍNIMO general", 1.0},
		{"substring across line wrap", "salario mínimo", "el salario\nmínimo", 1.0},
		{"duplicate query words count once", "ley ley", "la ley", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreQuery(tt.query, tt.text), 1e-9)
		})
	}
}

func TestScoreQuery_SubstringOnlyPartOfWords(t *testing.T) {
	// "ley fed" is a substring but "fed" is not a word of the text
	got := ScoreQuery("ley fed", "ley federal")
	assert.InDelta(t, 0.5+0.5, got, 1e-9)

	got = ScoreQuery("y fed", "ley federal")
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestScoreQuery_MonotonicInMatchedWords(t *testing.T) {
	query := "derecho huelga trabajadores patrón sindicato"
	texts := []string{
		"nada relevante aquí",
		"el derecho",
		"el derecho de huelga",
		"el derecho de huelga de los trabajadores",
		"el derecho de huelga de los trabajadores frente al patrón",
		"el sindicato y el derecho de huelga de los trabajadores frente al patrón",
	}

	prev := -1.0
	for _, text := range texts {
		score := ScoreQuery(query, text)
		assert.GreaterOrEqual(t, score, prev, text)
		assert.LessOrEqual(t, score, 1.0)
		assert.GreaterOrEqual(t, score, 0.0)
		prev = score
	}
}

func TestRelevanceSortScore(t *testing.T) {
	chunk := &domain.LegalChunk{
		Content:  "Los trabajadores tienen derecho a un salario.",
		Metadata: domain.ChunkMetadata{Title: "Ley Federal del Trabajo"},
		Keywords: []string{"salario", "trabajador"},
	}

	// one of two words in content (0.5) + keyword "salario" (5)
	assert.InDelta(t, 5.5, RelevanceSortScore("salario justo", chunk), 1e-9)

	// title match (0.8), no content words
	assert.InDelta(t, 0.8, RelevanceSortScore("federal del trabajo", chunk), 1e-9)

	assert.Zero(t, RelevanceSortScore("", chunk))
	assert.Zero(t, RelevanceSortScore("salario", nil))
}

func TestRelevanceSortScore_ExceedsOne(t *testing.T) {
	chunk := &domain.LegalChunk{
		Content:  "salario mínimo",
		Metadata: domain.ChunkMetadata{Title: "Salario Mínimo"},
		Keywords: []string{"salario mínimo", "salario"},
	}
	got := RelevanceSortScore("salario mínimo", chunk)
	assert.InDelta(t, 1.0+0.8+5+5, got, 1e-9)
	assert.Greater(t, got, ScoreQuery("salario mínimo", chunk.Content))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("Ley Federal", "ley federal"), 1e-9)
	assert.InDelta(t, 1.0/3.0, Similarity("ley federal", "ley local"), 1e-9)
	assert.Zero(t, Similarity("", ""))
	assert.Zero(t, Similarity("ley", ""))
	assert.Zero(t, Similarity("amparo", "salario"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "El patrón deberá pagar el salario"
	b := "El salario se paga semanalmente"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
}
