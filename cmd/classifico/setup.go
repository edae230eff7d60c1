package classifico

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	root "github.com/soundprediction/classifico"
	"github.com/soundprediction/classifico/pkg/alert"
	"github.com/soundprediction/classifico/pkg/config"
	"github.com/soundprediction/classifico/pkg/embedder"
	"github.com/soundprediction/classifico/pkg/logger"
	"github.com/soundprediction/classifico/pkg/nlp"
	"github.com/soundprediction/classifico/pkg/oracle"
	"github.com/soundprediction/classifico/pkg/taxonomy"
	"github.com/soundprediction/classifico/pkg/telemetry"
)

// buildLogger creates the process logger, with the Parquet error sink
// layered on when telemetry is enabled.
func buildLogger(cfg *config.Config) *slog.Logger {
	base := logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.Enabled && cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(base, cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize error tracking: %v\n", err)
		} else {
			return slog.New(parquetHandler)
		}
	}

	if cfg.Log.Format == "json" {
		return logger.New(cfg.Log.Level, cfg.Log.Format)
	}
	return slog.New(base)
}

// buildEmbedder creates the embedding client per config, wrapped in the
// memoizing cache.
func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedConfig := &embedder.Config{
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	}

	var client embedder.Client
	var err error
	switch cfg.Embedding.Provider {
	case "openai":
		client, err = embedder.NewOpenAIClient(embedConfig)
	case "embedeverything", "":
		client, err = embedder.NewEmbedEverythingClient(embedConfig)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return embedder.NewCachingClient(client), nil
}

// buildStore opens the taxonomy store per config.
func buildStore(ctx context.Context, cfg *config.Config, embedClient embedder.Client, log *slog.Logger) (taxonomy.Store, error) {
	switch cfg.Store.Driver {
	case "yaml", "":
		store, err := taxonomy.LoadYAMLFile(ctx, cfg.Store.Path, embedClient)
		if err != nil {
			return nil, fmt.Errorf("failed to load taxonomy from %s: %w", cfg.Store.Path, err)
		}
		log.Info("taxonomy loaded", "path", cfg.Store.Path, "nodes", store.Len())
		return store, nil
	case "badger":
		return taxonomy.OpenBadgerStore(cfg.Store.Path, log)
	case "neo4j":
		return taxonomy.NewNeo4jStore(cfg.Store.URI, cfg.Store.Username, cfg.Store.Password, cfg.Store.Database)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// buildNLPClient creates the LLM client for the oracles, or nil when no
// model is configured. The base client is wrapped with retry and, when
// enabled, a circuit breaker.
func buildNLPClient(cfg *config.Config, log *slog.Logger) (nlp.Client, error) {
	model := cfg.NLP.Models["default"]
	if model.APIKey == "" && model.BaseURL == "" {
		return nil, nil
	}

	switch model.Provider {
	case "openai", "":
		base, err := nlp.NewOpenAIClient(model.APIKey, nlp.Config{
			Model:       model.Model,
			BaseURL:     model.BaseURL,
			Temperature: model.Temperature,
			MaxTokens:   model.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create NLP client: %w", err)
		}

		retryConfig := nlp.DefaultRetryConfig()
		if model.MaxRetries > 0 {
			retryConfig.MaxRetries = model.MaxRetries
		}
		var client nlp.Client = nlp.NewRetryClient(base, retryConfig)

		if cfg.CircuitBreaker.Enabled {
			var alerter alert.Alerter = &alert.NoOpAlerter{}
			if cfg.Alert.Enabled {
				alerter = alert.NewEmailAlerter(cfg.Alert)
			}
			client = nlp.NewCircuitBreakerClient(client, cfg.CircuitBreaker, alerter, "nlp-default", log)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", model.Provider)
	}
}

// buildClassifier wires the full client: store, embedder, oracles.
func buildClassifier(ctx context.Context, cfg *config.Config, log *slog.Logger) (*root.Client, taxonomy.Store, error) {
	embedClient, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := buildStore(ctx, cfg, embedClient, log)
	if err != nil {
		embedClient.Close()
		return nil, nil, err
	}

	nlpClient, err := buildNLPClient(cfg, log)
	if err != nil {
		store.Close()
		embedClient.Close()
		return nil, nil, err
	}

	var extractor oracle.HintExtractor
	if nlpClient != nil {
		extractor = oracle.NewLLMHintExtractor(nlpClient)
		log.Info("LLM oracles enabled", "model", cfg.NLP.Models["default"].Model)
	}

	search := cfg.Search
	client, err := root.NewClient(store, embedClient, extractor, &root.Config{
		RootID: cfg.Store.RootID,
		Search: &search,
	}, log)
	if err != nil {
		store.Close()
		embedClient.Close()
		return nil, nil, err
	}

	if nlpClient != nil {
		client.SetBranchSelector(oracle.NewLLMBranchSelector(nlpClient))
		client.SetVerifier(oracle.NewLLMVerifier(nlpClient))
	}

	return client, store, nil
}
