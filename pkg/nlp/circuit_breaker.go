package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/classifico/pkg/alert"
	"github.com/soundprediction/classifico/pkg/types"
)

// CircuitBreakerConfig holds circuit breaker settings for LLM clients.
type CircuitBreakerConfig struct {
	Enabled          bool    `json:"enabled" mapstructure:"enabled"`
	MaxRequests      uint32  `json:"max_requests" mapstructure:"max_requests"`
	Interval         int     `json:"interval" mapstructure:"interval"`
	Timeout          int     `json:"timeout" mapstructure:"timeout"`
	ReadyToTripRatio float64 `json:"ready_to_trip_ratio" mapstructure:"ready_to_trip_ratio"`
}

// DefaultCircuitBreakerConfig returns conservative defaults: trip after
// 60% failures over at least 3 requests, probe again after 30 seconds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          30,
		ReadyToTripRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a Client with circuit breaking logic.
// When the breaker opens, oracle calls fail fast and the search engine
// falls back to its embedding-only heuristics.
type CircuitBreakerClient struct {
	client  Client
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	name    string
}

// NewCircuitBreakerClient creates a new circuit breaker client.
func NewCircuitBreakerClient(client Client, cfg CircuitBreakerConfig, alerter alert.Alerter, name string, logger *slog.Logger) *CircuitBreakerClient {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen && alerter != nil {
				msg := fmt.Sprintf("Circuit Breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				_ = alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg)
			}
		},
	}

	return &CircuitBreakerClient{
		client:  client,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		name:    name,
	}
}

// Chat implements Client
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// ChatWithStructuredOutput implements Client
func (c *CircuitBreakerClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.ChatWithStructuredOutput(ctx, messages, schema)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// Close implements Client
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
