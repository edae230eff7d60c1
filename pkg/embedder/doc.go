// Package embedder provides text embedding clients for vector representations.
//
// This package defines the Client interface and provides implementations for
// OpenAI-compatible APIs and local embedding through go-embedeverything.
//
// # Usage
//
//	client, err := embedder.NewOpenAIClient(&embedder.Config{
//	    APIKey: apiKey,
//	    Model:  "text-embedding-3-small",
//	})
//
//	embeddings, err := client.Embed(ctx, []string{"hello world"})
//
// # Batch Processing
//
// The Client interface supports batch embedding for efficiency:
//   - Embed(): Embed multiple texts in a single request
//   - EmbedSingle(): Convenience method for single text
//
// Implementations handle batching internally based on provider limits.
package embedder
