package embedder

import (
	"context"
	"sync"
)

// CachingClient wraps a Client and memoizes embeddings per unique text.
// Hint strings repeat heavily across classification calls against the
// same taxonomy, so a small in-process cache removes most provider
// round-trips.
type CachingClient struct {
	client Client

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewCachingClient wraps the given client with an unbounded in-process
// cache keyed by exact text.
func NewCachingClient(client Client) *CachingClient {
	return &CachingClient{
		client: client,
		cache:  make(map[string][]float32),
	}
}

// Embed returns embeddings for the given texts, serving cached entries
// and forwarding only the misses to the wrapped client in one batch.
func (c *CachingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int

	c.mu.RLock()
	for i, text := range texts {
		if embedding, ok := c.cache[text]; ok {
			results[i] = embedding
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return results, nil
	}

	embeddings, err := c.client.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i, embedding := range embeddings {
		results[missingIdx[i]] = embedding
		c.cache[missing[i]] = embedding
	}
	c.mu.Unlock()

	return results, nil
}

// EmbedSingle returns the embedding for a single text.
func (c *CachingClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimensions returns the wrapped client's dimensionality.
func (c *CachingClient) Dimensions() int {
	return c.client.Dimensions()
}

// Close closes the wrapped client.
func (c *CachingClient) Close() error {
	return c.client.Close()
}

// Len returns the number of cached embeddings.
func (c *CachingClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
