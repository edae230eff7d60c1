package embedder

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the Client interface for OpenAI's embedding
// models. Supports OpenAI-compatible services through a custom BaseURL.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI embedding client.
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config == nil {
		config = NewConfig()
	}
	if config.Model == "" {
		config.Model = string(openai.SmallEmbedding3)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	var client *openai.Client
	if config.BaseURL != "" {
		apiKey := config.APIKey
		if apiKey == "" {
			apiKey = "dummy-key"
		}
		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		if config.APIKey == "" {
			return nil, fmt.Errorf("api key is required for openai embeddings")
		}
		client = openai.NewClient(config.APIKey)
	}

	return &OpenAIClient{
		client: client,
		config: config,
	}, nil
}

// Embed generates embeddings for the given texts, batching requests
// according to the configured batch size.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := start + c.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.config.Model),
			Input: texts[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), end-start)
		}

		for _, item := range resp.Data {
			embeddings = append(embeddings, item.Embedding)
		}
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Dimensions returns the number of dimensions in the embeddings.
func (c *OpenAIClient) Dimensions() int {
	return c.config.Dimensions
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}
