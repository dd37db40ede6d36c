package domain

// EmbeddingProvider identifies the embedding backend
type EmbeddingProvider string

const (
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
	EmbeddingProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if this is a known provider
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOpenAI, EmbeddingProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider requires an API key
func (p EmbeddingProvider) RequiresAPIKey() bool {
	// Ollama is self-hosted
	return p != EmbeddingProviderOllama
}

// EmbeddingSettings configures the optional embedding service
type EmbeddingSettings struct {
	Provider EmbeddingProvider `json:"provider"`
	Model    string            `json:"model"`
	APIKey   string            `json:"-"` // Never serialize to JSON
	BaseURL  string            `json:"base_url,omitempty"`
	// RequestsPerSecond caps calls made while back-filling chunk embeddings
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
	BatchSize         int     `json:"batch_size,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Validate rejects unknown providers
func (e *EmbeddingSettings) Validate() error {
	if e.Provider != "" && !e.Provider.IsValid() {
		return ErrInvalidProvider
	}
	return nil
}
