package driven

// Normaliser turns raw edition bytes of one format into plain legal text.
type Normaliser interface {
	// Normalise transforms raw content into plain text.
	// The mimeType helps determine the appropriate processing.
	Normalise(content string, mimeType string) string

	// SupportedTypes returns MIME types this normaliser handles.
	// Can include wildcards like "text/*" or specific types like "text/html".
	SupportedTypes() []string

	// Priority returns the normaliser priority (higher = more specific).
	// Priority ranges:
	//   50-89:  Format-specific (HTML, Markdown)
	//   10-49:  Generic (plain text clean-up)
	//   1-9:    Fallback
	Priority() int
}

// NormaliserRegistry manages content normalisers.
// When multiple normalisers match a MIME type, the highest priority one is used.
type NormaliserRegistry interface {
	// Get retrieves the best-matching normaliser for a MIME type.
	// Returns nil if no normaliser is registered for the type.
	Get(mimeType string) Normaliser

	// GetAll retrieves all normalisers that match a MIME type, sorted by priority (highest first).
	GetAll(mimeType string) []Normaliser

	// Register registers a normaliser.
	Register(normaliser Normaliser)

	// List returns all registered MIME types.
	List() []string
}

// PostProcessor is one stage of the sliding-window chunk pipeline.
// Stages form a pipeline: window chunker -> whitespace normaliser -> near-duplicate filter.
type PostProcessor interface {
	// Process transforms the passages produced by the previous stage.
	// The first stage receives a single passage with the full text.
	Process(passages []Passage) []Passage

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the stage order in the pipeline (lower = earlier).
	// The chunker is 0, subsequent stages increment from there.
	Order() int
}

// Passage is a piece of document text flowing through the pipeline.
type Passage struct {
	// Content is the text of the passage
	Content string

	// Position is the passage index within the document (0-based)
	Position int

	// Metadata contains additional passage-specific data
	Metadata map[string]string
}

// PostProcessorPipeline chains multiple post-processors in order.
type PostProcessorPipeline interface {
	// Process applies all processors in order to the full text.
	Process(content string) []Passage

	// Add adds a processor to the pipeline.
	// Processors are sorted by Order() before processing.
	Add(processor PostProcessor)

	// List returns processor names in order.
	List() []string
}
