// Package nlp provides language model clients for the oracle layer.
//
// This package defines the Client interface and an implementation for
// OpenAI and OpenAI-compatible chat APIs, plus decorators that add
// retry with exponential backoff and circuit breaking.
//
// # Usage
//
//	client, err := nlp.NewOpenAIClient(apiKey, nlp.Config{Model: "gpt-4o-mini"})
//	client = nlp.NewRetryClient(client, nil)
//
//	resp, err := client.Chat(ctx, []types.Message{
//	    nlp.NewSystemMessage("You extract type hints."),
//	    nlp.NewUserMessage(subject),
//	})
//
// Decorators compose: wrap the base client in a RetryClient for
// transient failures, then in a CircuitBreakerClient to stop hammering
// a provider that is down.
package nlp
