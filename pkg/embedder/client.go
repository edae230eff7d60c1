package embedder

import "context"

// Client defines the interface for embedding operations.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Default configuration values.
const (
	DefaultBatchSize  = 100
	DefaultDimensions = 1536
)

// Config holds configuration for embedding clients.
type Config struct {
	// APIKey is the authentication key for the embedding API.
	// Excluded from JSON serialization to prevent accidental exposure in logs/responses.
	APIKey string `json:"-"`

	// Model is the embedding model to use.
	Model string `json:"model,omitempty"`

	// BaseURL is the base URL of an OpenAI-compatible embedding service.
	BaseURL string `json:"base_url,omitempty"`

	// Dimensions is the expected embedding dimensionality.
	Dimensions int `json:"dimensions,omitempty"`

	// BatchSize is the maximum number of texts per request.
	BatchSize int `json:"batch_size,omitempty"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Dimensions: DefaultDimensions,
		BatchSize:  DefaultBatchSize,
	}
}
