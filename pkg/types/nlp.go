package types

// Role identifies the author of a chat message.
type Role string

// Message is a single chat message exchanged with a language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports token consumption for a model call when the
// provider makes it available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the normalized result of a chat completion call.
type Response struct {
	Content      string      `json:"content"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Model        string      `json:"model,omitempty"`
	TokensUsed   *TokenUsage `json:"tokens_used,omitempty"`
}

// contextKey is a private type for context values set by the server
// middleware and consumed by the telemetry handler.
type contextKey string

const (
	// ContextKeyRequestID carries the per-request identifier.
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeySessionID carries the caller-provided session identifier.
	ContextKeySessionID contextKey = "session_id"
	// ContextKeyRequestSource marks where a request entered the system.
	ContextKeyRequestSource contextKey = "request_source"
)
