package oracle

import (
	"context"

	"github.com/soundprediction/classifico/pkg/types"
)

// HintExtractor produces 1 to 5 short type phrases for a subject,
// ordered most important first. The label is the subject's surface
// form, surrounding is nearby text when available, and kind is a
// coarse category tag (may be empty).
type HintExtractor interface {
	Extract(ctx context.Context, label, surrounding, kind string) ([]string, error)
}

// BranchSelector picks the taxonomy root branches worth exploring for
// a subject. Implementations return one choice per relevant child
// label with a relevance in [0, 1].
type BranchSelector interface {
	Select(ctx context.Context, children []*types.TaxonomyNode, subject string) ([]types.BranchChoice, error)
}

// Verdict is a Verifier's judgment over ranked candidates.
type Verdict struct {
	// BestIndex is the index into the candidate slice the verifier
	// prefers, or -1 when it rejects all of them.
	BestIndex int `json:"best_index"`

	// Confidence is the verifier's confidence in BestIndex, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Reasoning is a short free-form explanation.
	Reasoning string `json:"reasoning,omitempty"`
}

// Verifier reviews ranked candidate paths for a subject. It runs
// strictly after ranking and never inside the search.
type Verifier interface {
	Verify(ctx context.Context, subject string, candidates []*types.CandidatePath) (*Verdict, error)
}
