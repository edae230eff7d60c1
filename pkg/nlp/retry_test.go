package nlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soundprediction/classifico/pkg/types"
)

// flakyClient fails a fixed number of times before succeeding.
type flakyClient struct {
	failures int
	err      error
	calls    int
}

func (c *flakyClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, c.err
	}
	return &types.Response{Content: "ok"}, nil
}

func (c *flakyClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return c.Chat(ctx, messages)
}

func (c *flakyClient) Close() error { return nil }

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClientEventualSuccess(t *testing.T) {
	backing := &flakyClient{failures: 2, err: NewRateLimitError()}
	client := NewRetryClient(backing, fastRetryConfig(3))

	resp, err := client.Chat(context.Background(), []types.Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if backing.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", backing.calls)
	}
}

func TestRetryClientExhaustsRetries(t *testing.T) {
	backing := &flakyClient{failures: 100, err: NewRateLimitError()}
	client := NewRetryClient(backing, fastRetryConfig(2))

	_, err := client.Chat(context.Background(), []types.Message{NewUserMessage("hi")})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if backing.calls != 3 {
		t.Errorf("expected 3 attempts (1 + 2 retries), got %d", backing.calls)
	}
}

func TestRetryClientNonRetryableError(t *testing.T) {
	backing := &flakyClient{failures: 100, err: NewRefusalError("refused")}
	client := NewRetryClient(backing, fastRetryConfig(3))

	_, err := client.Chat(context.Background(), []types.Message{NewUserMessage("hi")})
	if err == nil {
		t.Fatal("expected error")
	}
	if backing.calls != 1 {
		t.Errorf("a refusal must not be retried, got %d attempts", backing.calls)
	}
}

func TestRetryClientContextCancelled(t *testing.T) {
	backing := &flakyClient{failures: 100, err: NewRateLimitError()}
	client := NewRetryClient(backing, &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Hour,
		MaxDelay:          time.Hour,
		BackoffMultiplier: 2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Chat(ctx, []types.Message{NewUserMessage("hi")})
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation error, got %v", err)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"rate limit type", NewRateLimitError(), true},
		{"rate limit sentinel", ErrRateLimit, true},
		{"503 text", errors.New("503 service unavailable"), true},
		{"timeout text", errors.New("request timeout"), true},
		{"connection reset", errors.New("connection reset by peer"), true},
		{"refusal", NewRefusalError("no"), false},
		{"plain", errors.New("bad request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.retryable {
				t.Errorf("expected %v, got %v", tt.retryable, got)
			}
		})
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	client := NewRetryClient(&flakyClient{}, &RetryConfig{
		MaxRetries:        10,
		InitialDelay:      time.Second,
		MaxDelay:          4 * time.Second,
		BackoffMultiplier: 2.0,
	})

	if got := client.calculateDelay(1); got != time.Second {
		t.Errorf("expected 1s for first retry, got %v", got)
	}
	if got := client.calculateDelay(2); got != 2*time.Second {
		t.Errorf("expected 2s for second retry, got %v", got)
	}
	if got := client.calculateDelay(10); got != 4*time.Second {
		t.Errorf("expected the cap, got %v", got)
	}
}

func TestErrorIsSupport(t *testing.T) {
	if !errors.Is(NewRateLimitError("custom"), &RateLimitError{}) {
		t.Error("expected RateLimitError to match via errors.Is")
	}
	if !errors.Is(NewRefusalError("no"), &RefusalError{}) {
		t.Error("expected RefusalError to match via errors.Is")
	}
	if !errors.Is(NewEmptyResponseError("empty"), &EmptyResponseError{}) {
		t.Error("expected EmptyResponseError to match via errors.Is")
	}
}
