// Package config loads application configuration from file and
// environment through viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/soundprediction/classifico/pkg/alert"
	"github.com/soundprediction/classifico/pkg/classify"
	"github.com/soundprediction/classifico/pkg/nlp"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Store configuration (taxonomy backend)
	Store StoreConfig `mapstructure:"store"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Search engine tuning
	Search classify.SearchConfig `mapstructure:"search"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert alert.Config `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker nlp.CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// StoreConfig holds taxonomy store configuration
type StoreConfig struct {
	// Driver selects the backend: yaml, badger, neo4j
	Driver string `mapstructure:"driver"`

	// Path is the YAML seed file (yaml driver) or data directory
	// (badger driver)
	Path string `mapstructure:"path"`

	// Neo4j connection settings (neo4j driver)
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`

	// RootID is the taxonomy root node id
	RootID int64 `mapstructure:"root_id"`
}

// NLPConfig holds NLP configuration
type NLPConfig struct {
	// Models is a map of model configurations (e.g. "default", "verifier")
	Models map[string]NLPModelConfig `mapstructure:"models"`
}

// NLPModelConfig holds configuration for a specific model
type NLPModelConfig struct {
	Provider    string  `mapstructure:"provider"` // openai, none
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"` // openai, embedeverything
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{Search: *classify.DefaultSearchConfig()}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Store defaults
	viper.SetDefault("store.driver", "yaml")
	viper.SetDefault("store.path", "./taxonomy.yaml")
	viper.SetDefault("store.root_id", 1)

	viper.SetDefault("nlp.models.default.provider", "openai")
	viper.SetDefault("nlp.models.default.model", "gpt-4o-mini")
	viper.SetDefault("nlp.models.default.temperature", 0.0)
	viper.SetDefault("nlp.models.default.max_tokens", 1024)
	viper.SetDefault("nlp.models.default.max_retries", 3)

	viper.SetDefault("embedding.provider", "embedeverything")
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")

	// Circuit breaker defaults
	cb := nlp.DefaultCircuitBreakerConfig()
	viper.SetDefault("circuit_breaker.enabled", cb.Enabled)
	viper.SetDefault("circuit_breaker.max_requests", cb.MaxRequests)
	viper.SetDefault("circuit_breaker.interval", cb.Interval)
	viper.SetDefault("circuit_breaker.timeout", cb.Timeout)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", cb.ReadyToTripRatio)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.classifico/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if config.NLP.Models == nil {
		config.NLP.Models = make(map[string]NLPModelConfig)
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		defaultModel := config.NLP.Models["default"]
		defaultModel.APIKey = apiKey
		config.NLP.Models["default"] = defaultModel

		if config.Embedding.Provider == "openai" {
			config.Embedding.APIKey = apiKey
		}
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Store.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Store.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Store.Password = pass
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		config.Store.Driver = driver
	}
	if path := os.Getenv("STORE_PATH"); path != "" {
		config.Store.Path = path
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}

	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
