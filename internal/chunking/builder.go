// Package chunking turns legal documents into retrievable chunks, either one
// per structural unit or as fixed-size sliding windows of whole sentences.
package chunking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/extract"
	"github.com/custodia-labs/lexcore/internal/locale"
	"github.com/custodia-labs/lexcore/internal/structure"
	"github.com/custodia-labs/lexcore/internal/textutil"
)

const (
	DefaultMaxChunkSize = 1000
	DefaultOverlapSize  = 200
)

// Strategy names reported in ingestion results
const (
	StrategyStructure = "structure"
	StrategyWindow    = "sliding_window"
)

// Options selects the chunking strategy.
// OverlapSize is measured in characters when PreserveStructure is set and
// in words for the sliding window.
type Options struct {
	MaxChunkSize      int  `json:"max_chunk_size"`
	OverlapSize       int  `json:"overlap_size"`
	PreserveStructure bool `json:"preserve_structure"`
}

// DefaultOptions returns structure-preserving chunking with the default sizes.
func DefaultOptions() Options {
	return Options{
		MaxChunkSize:      DefaultMaxChunkSize,
		OverlapSize:       DefaultOverlapSize,
		PreserveStructure: true,
	}
}

// Strategy returns the strategy name for o.
func (o Options) Strategy() string {
	if o.PreserveStructure {
		return StrategyStructure
	}
	return StrategyWindow
}

func (o Options) normalised() Options {
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = DefaultMaxChunkSize
	}
	if o.OverlapSize < 0 {
		o.OverlapSize = 0
	}
	return o
}

// SourceUnit is a structural unit ready to become one chunk
type SourceUnit struct {
	Type   domain.ContentType
	Number string
	// ContentID is the id of the content node the unit was read from
	ContentID string
	Text      string
}

// Config configures a Builder.
type Config struct {
	// Locale supplies markers, abbreviations and extraction tables.
	// Nil selects the Mexican Spanish table.
	Locale *locale.Locale

	// DropNearDuplicates adds the Jaccard near-duplicate filter to the
	// sliding-window pipeline.
	DropNearDuplicates bool
	Dedup              DeduplicatorConfig
}

// Builder produces chunks from documents.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	locale    *locale.Locale
	parser    *structure.Parser
	extractor *extract.Extractor
	splitter  *SentenceSplitter
	dedup     *DeduplicatorConfig
}

// NewBuilder compiles the locale tables.
func NewBuilder(cfg Config) (*Builder, error) {
	loc := cfg.Locale
	if loc == nil {
		loc = locale.MexicanSpanish()
	}
	parser, err := structure.NewParser(loc)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		locale:    loc,
		parser:    parser,
		extractor: extract.NewExtractor(loc),
		splitter:  NewSentenceSplitter(loc.Abbreviations),
	}
	if cfg.DropNearDuplicates {
		dedup := cfg.Dedup
		if dedup.SimilarityThreshold <= 0 {
			dedup = DefaultDeduplicatorConfig()
		}
		b.dedup = &dedup
	}
	return b, nil
}

// Parser exposes the structural parser built from the builder's locale.
func (b *Builder) Parser() *structure.Parser {
	return b.parser
}

// Extractor exposes the keyword and citation extractor.
func (b *Builder) Extractor() *extract.Extractor {
	return b.extractor
}

// Build chunks doc. Chunk ids are unique within the document; a duplicate
// id means the builder itself is broken and panics.
func (b *Builder) Build(doc *domain.LegalDocument, opts Options) []*domain.LegalChunk {
	if doc == nil {
		return nil
	}
	opts = opts.normalised()

	var chunks []*domain.LegalChunk
	if opts.PreserveStructure {
		chunks = b.buildStructured(doc, opts)
	} else {
		chunks = b.buildWindows(doc, opts)
	}

	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		if _, dup := seen[c.ID]; dup {
			panic(fmt.Sprintf("chunking: duplicate chunk id %q in document %q", c.ID, doc.ID))
		}
		seen[c.ID] = struct{}{}
	}
	return chunks
}

// Units lists the structural units of doc in order. A content node whose
// text parses into several marked units is split into them; otherwise the
// node itself is the unit. Empty units are skipped.
func (b *Builder) Units(doc *domain.LegalDocument) []SourceUnit {
	var units []SourceUnit
	for _, node := range doc.Content {
		text := strings.TrimSpace(node.Content)
		if text == "" {
			continue
		}

		parsed := b.parser.Parse(text)
		if len(parsed) <= 1 {
			unit := SourceUnit{Type: node.Type, Number: node.Number, ContentID: node.ID, Text: text}
			if len(parsed) == 1 {
				if unit.Type == "" {
					unit.Type = parsed[0].Type
				}
				if unit.Number == "" {
					unit.Number = parsed[0].Number
				}
			}
			if unit.Type == "" {
				unit.Type = domain.ContentTypeParagraph
			}
			units = append(units, unit)
			continue
		}

		for _, p := range parsed {
			if p.Text == "" {
				continue
			}
			units = append(units, SourceUnit{Type: p.Type, Number: p.Number, ContentID: node.ID, Text: p.Text})
		}
	}
	return units
}

func (b *Builder) buildStructured(doc *domain.LegalDocument, opts Options) []*domain.LegalChunk {
	units := b.Units(doc)
	chunks := make([]*domain.LegalChunk, 0, len(units))
	used := make(map[string]struct{}, len(units))

	for i, u := range units {
		content := u.Text
		if opts.OverlapSize > 0 && textutil.RuneLen(content) < opts.MaxChunkSize/2 {
			content = b.withContext(units, i, opts)
		}

		id := structuredID(doc.ID, u, i)
		if _, taken := used[id]; taken {
			id = id + "_" + strconv.Itoa(i)
		}
		used[id] = struct{}{}

		chunk := b.newChunk(doc, id, content, i)
		chunk.Metadata.UnitType = u.Type
		chunk.Metadata.Article = u.Number
		chunk.Metadata.UnitID = u.ContentID
		chunks = append(chunks, chunk)
	}
	return chunks
}

// withContext folds whole sentences from the previous unit's tail, or when
// none fit from the next unit's head, into a short unit. The added context
// never exceeds the overlap size nor pushes the chunk past MaxChunkSize.
func (b *Builder) withContext(units []SourceUnit, i int, opts Options) string {
	text := units[i].Text
	budget := min(opts.OverlapSize, opts.MaxChunkSize-textutil.RuneLen(text)-len(contextSeparator))
	if budget <= 0 {
		return text
	}

	if i > 0 {
		if tail := b.sentenceTail(units[i-1].Text, budget); tail != "" {
			return tail + contextSeparator + text
		}
	}
	if i+1 < len(units) {
		if head := b.sentenceHead(units[i+1].Text, budget); head != "" {
			return text + contextSeparator + head
		}
	}
	return text
}

const contextSeparator = "\n\n"

// sentenceTail returns the longest run of final sentences of text that fits
// in budget characters.
func (b *Builder) sentenceTail(text string, budget int) string {
	sentences := b.splitter.Split(text)
	var picked []string
	size := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		n := textutil.RuneLen(sentences[i])
		if len(picked) > 0 {
			n++
		}
		if size+n > budget {
			break
		}
		size += n
		picked = append([]string{sentences[i]}, picked...)
	}
	return strings.Join(picked, " ")
}

// sentenceHead returns the longest run of leading sentences of text that
// fits in budget characters.
func (b *Builder) sentenceHead(text string, budget int) string {
	var picked []string
	size := 0
	for _, s := range b.splitter.Split(text) {
		n := textutil.RuneLen(s)
		if len(picked) > 0 {
			n++
		}
		if size+n > budget {
			break
		}
		size += n
		picked = append(picked, s)
	}
	return strings.Join(picked, " ")
}

func (b *Builder) buildWindows(doc *domain.LegalDocument, opts Options) []*domain.LegalChunk {
	pipeline := NewPipeline()
	pipeline.Add(NewWindowChunker(WindowConfig{
		MaxChunkSize:  opts.MaxChunkSize,
		OverlapWords:  opts.OverlapSize,
		Abbreviations: b.locale.Abbreviations,
	}))
	pipeline.Add(NewWhitespaceNormalizer())
	if b.dedup != nil {
		pipeline.Add(NewDeduplicator(*b.dedup))
	}

	passages := pipeline.Process(doc.FullText())
	chunks := make([]*domain.LegalChunk, 0, len(passages))
	for _, p := range passages {
		id := fmt.Sprintf("%s_chunk_%d", doc.ID, p.Position)
		chunks = append(chunks, b.newChunk(doc, id, p.Content, p.Position))
	}
	return chunks
}

func (b *Builder) newChunk(doc *domain.LegalDocument, id, content string, index int) *domain.LegalChunk {
	return &domain.LegalChunk{
		ID:         id,
		DocumentID: doc.ID,
		Content:    content,
		Metadata: domain.ChunkMetadata{
			DocumentType: doc.Type,
			Title:        doc.Title,
			Hierarchy:    doc.Hierarchy,
			LegalArea:    doc.PrimaryArea,
			ChunkIndex:   index,
		},
		Keywords:  b.extractor.Keywords(content),
		Citations: b.extractor.Citations(content),
	}
}

// structuredID names a unit chunk by type and number, or by position when
// the unit is unnumbered.
func structuredID(documentID string, u SourceUnit, index int) string {
	if slug := structure.Slug(u.Number); slug != "" {
		return fmt.Sprintf("%s_%s_%s", documentID, u.Type, slug)
	}
	return fmt.Sprintf("%s_%s_%d", documentID, u.Type, index)
}
