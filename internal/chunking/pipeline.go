package chunking

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/scoring"
	"github.com/custodia-labs/lexcore/internal/textutil"
)

// Verify interface compliance
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline implements PostProcessorPipeline.
// It chains post-processors in order, starting with a chunker.
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.PostProcessor
	sorted     bool
}

// NewPipeline creates an empty post-processor pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]driven.PostProcessor, 0),
	}
}

// Add adds a processor to the pipeline.
// Processors are sorted by Order() before processing.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	p.sorted = false
}

// Process runs every stage over the full text and renumbers the surviving
// passages so positions stay contiguous.
func (p *Pipeline) Process(content string) []driven.Passage {
	p.mu.Lock()
	if !p.sorted {
		sort.SliceStable(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}
	processors := make([]driven.PostProcessor, len(p.processors))
	copy(processors, p.processors)
	p.mu.Unlock()

	passages := []driven.Passage{{Content: content}}
	for _, proc := range processors {
		passages = proc.Process(passages)
	}

	for i := range passages {
		passages[i].Position = i
	}
	return passages
}

// List returns processor names in order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

// WindowConfig configures the sliding-window chunker.
type WindowConfig struct {
	// MaxChunkSize is the maximum characters per chunk
	MaxChunkSize int

	// OverlapWords is how many trailing words of a chunk seed the next one
	OverlapWords int

	// Abbreviations are tokens whose period never ends a sentence
	Abbreviations []string
}

// WindowChunker accumulates sentences into chunks of at most MaxChunkSize
// characters. When the next sentence would overflow, the buffer is emitted
// and the next buffer starts with the last OverlapWords words of the
// emitted chunk. A single sentence longer than MaxChunkSize is cut at word
// boundaries first.
type WindowChunker struct {
	config   WindowConfig
	splitter *SentenceSplitter
}

// Verify interface compliance
var _ driven.PostProcessor = (*WindowChunker)(nil)

// NewWindowChunker creates a chunker with the given config.
func NewWindowChunker(config WindowConfig) *WindowChunker {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultMaxChunkSize
	}
	if config.OverlapWords < 0 {
		config.OverlapWords = 0
	}
	return &WindowChunker{
		config:   config,
		splitter: NewSentenceSplitter(config.Abbreviations),
	}
}

// Process splits each passage into windows.
func (c *WindowChunker) Process(passages []driven.Passage) []driven.Passage {
	var result []driven.Passage
	for _, passage := range passages {
		for _, window := range c.windows(passage.Content) {
			result = append(result, driven.Passage{
				Content:  window,
				Position: len(result),
				Metadata: passage.Metadata,
			})
		}
	}
	return result
}

// Name returns the processor name.
func (c *WindowChunker) Name() string {
	return "window-chunker"
}

// Order returns 0 - the chunker runs first.
func (c *WindowChunker) Order() int {
	return 0
}

func (c *WindowChunker) windows(text string) []string {
	var (
		chunks []string
		buffer string
	)
	limit := c.config.MaxChunkSize

	for _, sentence := range c.sentences(text) {
		if buffer == "" {
			buffer = sentence
			continue
		}
		candidate := buffer + " " + sentence
		if textutil.RuneLen(candidate) <= limit {
			buffer = candidate
			continue
		}

		chunks = append(chunks, buffer)
		if tail := lastWords(buffer, c.config.OverlapWords); tail != "" {
			buffer = tail + " " + sentence
		} else {
			buffer = sentence
		}
	}
	if buffer != "" {
		chunks = append(chunks, buffer)
	}
	return chunks
}

// sentences splits text and cuts any sentence longer than a whole chunk.
func (c *WindowChunker) sentences(text string) []string {
	var out []string
	for _, s := range c.splitter.Split(text) {
		s = strings.Join(strings.Fields(s), " ")
		if textutil.RuneLen(s) <= c.config.MaxChunkSize {
			out = append(out, s)
			continue
		}
		out = append(out, cutWords(s, c.config.MaxChunkSize)...)
	}
	return out
}

// cutWords packs the words of s into pieces of at most limit characters.
// A single word longer than limit becomes its own piece.
func cutWords(s string, limit int) []string {
	var (
		pieces []string
		cur    string
	)
	for _, w := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = w
		case textutil.RuneLen(cur)+1+textutil.RuneLen(w) <= limit:
			cur += " " + w
		default:
			pieces = append(pieces, cur)
			cur = w
		}
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}
	return pieces
}

func lastWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

// DeduplicatorConfig configures the near-duplicate filter.
type DeduplicatorConfig struct {
	// MinDuplicateLength is the minimum passage length to check for duplicates
	MinDuplicateLength int

	// SimilarityThreshold is the minimum Jaccard similarity (0-1) to consider passages duplicate
	SimilarityThreshold float64
}

// DefaultDeduplicatorConfig returns the filter defaults.
func DefaultDeduplicatorConfig() DeduplicatorConfig {
	return DeduplicatorConfig{
		MinDuplicateLength:  50,
		SimilarityThreshold: 0.95,
	}
}

// Deduplicator drops passages whose word set is nearly identical to an
// earlier kept passage. Repeated boilerplate such as transitory articles
// is the usual source.
type Deduplicator struct {
	config DeduplicatorConfig
}

// Verify interface compliance
var _ driven.PostProcessor = (*Deduplicator)(nil)

// NewDeduplicator creates a deduplicator with the given config.
func NewDeduplicator(config DeduplicatorConfig) *Deduplicator {
	return &Deduplicator{config: config}
}

// Process removes near-duplicate passages, keeping the first occurrence.
func (d *Deduplicator) Process(passages []driven.Passage) []driven.Passage {
	if len(passages) <= 1 {
		return passages
	}

	var (
		result []driven.Passage
		kept   []string
	)
	for _, passage := range passages {
		if textutil.RuneLen(passage.Content) < d.config.MinDuplicateLength {
			result = append(result, passage)
			continue
		}
		if d.isDuplicate(passage.Content, kept) {
			continue
		}
		kept = append(kept, passage.Content)
		result = append(result, passage)
	}
	return result
}

func (d *Deduplicator) isDuplicate(content string, kept []string) bool {
	for _, k := range kept {
		if scoring.Similarity(content, k) >= d.config.SimilarityThreshold {
			return true
		}
	}
	return false
}

// Name returns the processor name.
func (d *Deduplicator) Name() string {
	return "deduplicator"
}

// Order returns 10 - deduplicator runs after normalisation.
func (d *Deduplicator) Order() int {
	return 10
}

// WhitespaceNormalizer normalizes whitespace in passages.
type WhitespaceNormalizer struct{}

// Verify interface compliance
var _ driven.PostProcessor = (*WhitespaceNormalizer)(nil)

// NewWhitespaceNormalizer creates a new whitespace normalizer.
func NewWhitespaceNormalizer() *WhitespaceNormalizer {
	return &WhitespaceNormalizer{}
}

// Process collapses runs of spaces, trims lines and drops empty passages.
func (w *WhitespaceNormalizer) Process(passages []driven.Passage) []driven.Passage {
	result := make([]driven.Passage, 0, len(passages))

	for _, passage := range passages {
		content := strings.ReplaceAll(passage.Content, "\r\n", "\n")
		content = strings.ReplaceAll(content, "\r", "\n")

		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = strings.Join(strings.Fields(line), " ")
		}
		content = strings.Join(lines, "\n")

		for strings.Contains(content, "\n\n\n") {
			content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
		}
		content = strings.TrimSpace(content)

		if content != "" {
			passage.Content = content
			result = append(result, passage)
		}
	}
	return result
}

// Name returns the processor name.
func (w *WhitespaceNormalizer) Name() string {
	return "whitespace-normalizer"
}

// Order returns 5 - runs between chunker and deduplicator.
func (w *WhitespaceNormalizer) Order() int {
	return 5
}
