package classifico

import (
	"context"
	"log/slog"

	"github.com/soundprediction/classifico/pkg/classify"
	"github.com/soundprediction/classifico/pkg/embedder"
	"github.com/soundprediction/classifico/pkg/oracle"
	"github.com/soundprediction/classifico/pkg/taxonomy"
	"github.com/soundprediction/classifico/pkg/types"
)

// Re-exported sentinel errors so callers depend on the root package
// only.
var (
	// ErrRootNotFound is returned when the configured taxonomy root id
	// does not resolve.
	ErrRootNotFound = classify.ErrRootNotFound

	// ErrNoHints is returned when hint extraction produces nothing
	// usable for a subject.
	ErrNoHints = types.ErrNoHints
)

// Subject is one concept to classify. Label is required; Context and
// Kind refine hint extraction when available.
type Subject struct {
	Label   string `json:"label"`
	Context string `json:"context,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// Classifier is the main interface for classifying concepts into the
// taxonomy.
type Classifier interface {
	// Classify classifies a bare subject label.
	Classify(ctx context.Context, subject string) ([]*types.CandidatePath, error)

	// ClassifySubject classifies a subject with optional context and
	// kind information.
	ClassifySubject(ctx context.Context, subject Subject) ([]*types.CandidatePath, error)

	// ClassifyBatch classifies subjects in parallel with bounded
	// concurrency. Results and errors are indexed like the input.
	ClassifyBatch(ctx context.Context, subjects []Subject) ([][]*types.CandidatePath, []error)

	// RecordClassification increments usage counters for an accepted
	// classification path. Call after the caller (or a human reviewer)
	// accepts a result, never during search.
	RecordClassification(ctx context.Context, path []int64) error

	// Close closes the underlying store and clients.
	Close() error
}

// Config holds configuration for the classifico client.
type Config struct {
	// RootID is the taxonomy root node id (default 1).
	RootID int64

	// Search tunes the engine; nil uses classify.DefaultSearchConfig.
	Search *classify.SearchConfig

	// BatchConcurrency bounds ClassifyBatch parallelism; non-positive
	// uses utils.ConcurrencyLimit.
	BatchConcurrency int

	// VerifierConfidenceFloor is the minimum verdict confidence for the
	// verifier to reorder results (default 0.5).
	VerifierConfidenceFloor float64
}

// Client is the main implementation of the Classifier interface.
type Client struct {
	store     taxonomy.Store
	embedder  embedder.Client
	extractor oracle.HintExtractor
	verifier  oracle.Verifier
	engine    *classify.Engine
	ranker    *classify.CandidateRanker
	config    *Config
	logger    *slog.Logger
}

var _ Classifier = (*Client)(nil)

// NewClient creates a classifico client. The store and embedder are
// required. A nil extractor falls back to the heuristic extractor; a
// nil config uses defaults.
func NewClient(store taxonomy.Store, embedderClient embedder.Client, extractor oracle.HintExtractor, config *Config, logger *slog.Logger) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if config.RootID == 0 {
		config.RootID = 1
	}
	if config.VerifierConfidenceFloor <= 0 {
		config.VerifierConfidenceFloor = 0.5
	}
	if extractor == nil {
		extractor = oracle.NewHeuristicHintExtractor()
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine := classify.NewEngine(store, config.Search, logger)
	ranker := classify.NewCandidateRanker(engine.Config(), logger)

	return &Client{
		store:     store,
		embedder:  embedderClient,
		extractor: extractor,
		engine:    engine,
		ranker:    ranker,
		config:    config,
		logger:    logger,
	}, nil
}

// SetBranchSelector installs the optional root branch oracle.
func (c *Client) SetBranchSelector(selector oracle.BranchSelector) {
	c.engine.SetBranchSelector(selector)
}

// SetVerifier installs the optional post-ranking verifier.
func (c *Client) SetVerifier(verifier oracle.Verifier) {
	c.verifier = verifier
}

// GetStore returns the underlying taxonomy store.
func (c *Client) GetStore() taxonomy.Store {
	return c.store
}

// GetEmbedder returns the embedding client.
func (c *Client) GetEmbedder() embedder.Client {
	return c.embedder
}

// GetEngine returns the search engine.
func (c *Client) GetEngine() *classify.Engine {
	return c.engine
}

// Close closes the store and the embedding client.
func (c *Client) Close() error {
	err := c.store.Close()
	if cerr := c.embedder.Close(); err == nil {
		err = cerr
	}
	return err
}
