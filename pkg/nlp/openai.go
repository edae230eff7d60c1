package nlp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/soundprediction/classifico/pkg/types"
)

// OpenAIClient implements the Client interface for OpenAI's language models.
// Supports OpenAI-compatible services through custom BaseURL configuration.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string, config Config) (*OpenAIClient, error) {
	var client *openai.Client

	if config.BaseURL != "" {
		if err := validateBaseURL(config.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		// Use dummy API key if none provided (some services don't require authentication)
		if apiKey == "" {
			apiKey = "dummy-key"
		}

		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = config.BaseURL

		// Many services expect "/v1" to be appended to the base URL
		if !hasAPIPath(config.BaseURL) {
			clientConfig.BaseURL = config.BaseURL + "/v1"
		}

		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(apiKey)
	}

	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: client,
		config: config,
	}, nil
}

// Chat sends a chat completion request to OpenAI or an OpenAI-compatible service.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	req := c.buildChatRequest(messages, false)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}

	return responseFromCompletion(resp)
}

// ChatWithStructuredOutput sends a chat completion request with JSON output.
func (c *OpenAIClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	req := c.buildChatRequest(messages, true)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}

	return responseFromCompletion(resp)
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) buildChatRequest(messages []types.Message, structuredOutput bool) openai.ChatCompletionRequest {
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    openaiMessages,
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	if structuredOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}

		// Add instruction for JSON output for OpenAI-compatible services
		if c.config.BaseURL != "" && len(req.Messages) > 0 {
			lastMessage := &req.Messages[len(req.Messages)-1]
			if lastMessage.Role == string(RoleUser) {
				lastMessage.Content += "\n\nPlease respond with valid JSON only."
			}
		}
	}

	return req
}

func responseFromCompletion(resp openai.ChatCompletionResponse) (*types.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, NewEmptyResponseError("no choices returned from openai")
	}

	choice := resp.Choices[0]
	response := &types.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}

	// Some OpenAI-compatible services do not report usage
	if resp.Usage.TotalTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return response, nil
}

func wrapOpenAIError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return NewRateLimitError(err.Error())
	}
	return fmt.Errorf("openai chat completion failed: %w", err)
}

// validateBaseURL validates the base URL format.
func validateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("baseURL cannot be empty")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL format: %w", err)
	}

	if parsedURL.Scheme == "" {
		return fmt.Errorf("baseURL must include scheme (http:// or https://)")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("baseURL must use http:// or https:// scheme")
	}

	return nil
}

// hasAPIPath checks if the base URL already includes an API path component.
func hasAPIPath(baseURL string) bool {
	commonPaths := []string{"/v1", "/api", "/v1/", "/api/"}
	for _, path := range commonPaths {
		if strings.HasSuffix(baseURL, path) {
			return true
		}
	}
	return false
}
