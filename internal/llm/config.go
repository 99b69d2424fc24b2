// Package llm provides the Gemini embedding client used to precompute the
// skill-vocabulary embedding index.
package llm

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Gemini API limit for one batch embedding request
const maxBatchSize = 100

// Config holds the embedding model configuration
type Config struct {
	Provider  Provider
	Model     string
	BatchSize int
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:  ProviderGemini,
		Model:     "text-embedding-004",
		BatchSize: maxBatchSize,
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}

// EffectiveBatchSize clamps the batch size to what the provider accepts.
func (c *Config) EffectiveBatchSize() int {
	switch {
	case c.BatchSize <= 0:
		return maxBatchSize
	case c.BatchSize > maxBatchSize:
		return maxBatchSize
	default:
		return c.BatchSize
	}
}
