package classifico

import (
	"context"
	"fmt"

	"github.com/soundprediction/classifico/pkg/taxonomy"
	"github.com/soundprediction/classifico/pkg/types"
	"github.com/soundprediction/classifico/pkg/utils"
)

// Classify classifies a bare subject label.
func (c *Client) Classify(ctx context.Context, subject string) ([]*types.CandidatePath, error) {
	return c.ClassifySubject(ctx, Subject{Label: subject})
}

// ClassifySubject runs the full pipeline for one subject: hint
// extraction, hint embedding, beam search, ranking, and optional
// verification.
func (c *Client) ClassifySubject(ctx context.Context, subject Subject) ([]*types.CandidatePath, error) {
	if subject.Label == "" {
		return nil, fmt.Errorf("subject label is empty")
	}

	hints, err := c.buildHints(ctx, subject)
	if err != nil {
		return nil, err
	}

	candidates, err := c.engine.Search(ctx, c.config.RootID, hints, subject.Label)
	if err != nil {
		return nil, err
	}

	ranked := c.ranker.Rank(candidates)
	c.logger.Debug("classification complete",
		"subject", subject.Label, "explored", len(candidates), "returned", len(ranked))

	if c.verifier != nil && len(ranked) > 1 {
		ranked = c.applyVerdict(ctx, subject.Label, ranked)
	}
	return ranked, nil
}

// ClassifyBatch classifies subjects in parallel. Each subject runs the
// same pipeline as ClassifySubject on its own goroutine; one failing
// subject does not affect its siblings.
func (c *Client) ClassifyBatch(ctx context.Context, subjects []Subject) ([][]*types.CandidatePath, []error) {
	pool := utils.NewWorkerPool(c.config.BatchConcurrency,
		func(ctx context.Context, subject Subject) ([]*types.CandidatePath, error) {
			return c.ClassifySubject(ctx, subject)
		})
	return pool.ProcessItems(ctx, subjects)
}

// RecordClassification increments usage counters along an accepted
// path. The store must implement taxonomy.UsageRecorder; read-only
// stores make this a logged no-op.
func (c *Client) RecordClassification(ctx context.Context, path []int64) error {
	recorder, ok := c.store.(taxonomy.UsageRecorder)
	if !ok {
		c.logger.Debug("store does not record usage, skipping")
		return nil
	}
	if len(path) == 0 {
		return nil
	}
	// The root is a structural node, not a classification.
	nodes := path
	if nodes[0] == c.config.RootID {
		nodes = nodes[1:]
	}
	return recorder.RecordUsage(ctx, nodes...)
}

// buildHints extracts hint texts and embeds them into a HintSet.
func (c *Client) buildHints(ctx context.Context, subject Subject) (*types.HintSet, error) {
	texts, err := c.extractor.Extract(ctx, subject.Label, subject.Context, subject.Kind)
	if err != nil {
		return nil, fmt.Errorf("extracting hints for %q: %w", subject.Label, err)
	}
	if len(texts) == 0 {
		return nil, ErrNoHints
	}

	embeddings, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d hints: %w", len(texts), err)
	}
	for i, embedding := range embeddings {
		embeddings[i] = utils.Normalize(embedding)
	}

	return types.NewHintSet(texts, embeddings)
}

// applyVerdict consults the verifier and promotes its preferred
// candidate when the verdict is confident. Verifier failures leave the
// ranking untouched.
func (c *Client) applyVerdict(ctx context.Context, subject string, ranked []*types.CandidatePath) []*types.CandidatePath {
	verdict, err := c.verifier.Verify(ctx, subject, ranked)
	if err != nil {
		c.logger.Warn("verifier failed, keeping ranker order", "subject", subject, "error", err)
		return ranked
	}
	if verdict == nil || verdict.BestIndex <= 0 || verdict.BestIndex >= len(ranked) {
		return ranked
	}
	if verdict.Confidence < c.config.VerifierConfidenceFloor {
		c.logger.Debug("verifier verdict below confidence floor",
			"subject", subject, "confidence", verdict.Confidence)
		return ranked
	}

	reordered := make([]*types.CandidatePath, 0, len(ranked))
	reordered = append(reordered, ranked[verdict.BestIndex])
	reordered = append(reordered, ranked[:verdict.BestIndex]...)
	reordered = append(reordered, ranked[verdict.BestIndex+1:]...)

	c.logger.Debug("verifier promoted candidate",
		"subject", subject, "index", verdict.BestIndex, "confidence", verdict.Confidence)
	return reordered
}
