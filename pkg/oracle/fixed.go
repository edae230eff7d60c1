package oracle

import (
	"context"

	"github.com/soundprediction/classifico/pkg/types"
)

// FixedHintExtractor returns a canned hint list regardless of input.
// Intended for tests and offline evaluation runs.
type FixedHintExtractor struct {
	Hints []string
	Err   error
}

func (f *FixedHintExtractor) Extract(ctx context.Context, label, surrounding, kind string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Hints, nil
}

// FixedBranchSelector returns a canned choice list regardless of input.
type FixedBranchSelector struct {
	Choices []types.BranchChoice
	Err     error
}

func (f *FixedBranchSelector) Select(ctx context.Context, children []*types.TaxonomyNode, subject string) ([]types.BranchChoice, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Choices, nil
}

// FixedVerifier returns a canned verdict regardless of input.
type FixedVerifier struct {
	Verdict *Verdict
	Err     error
}

func (f *FixedVerifier) Verify(ctx context.Context, subject string, candidates []*types.CandidatePath) (*Verdict, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Verdict, nil
}
