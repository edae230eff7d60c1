package classify

import (
	"testing"

	"github.com/soundprediction/classifico/pkg/types"
)

func matched(path []int64, score float64) *types.CandidatePath {
	return &types.CandidatePath{
		Path:        path,
		FinalScore:  score,
		Depth:       len(path) - 1,
		Assignments: []types.HintAssignment{{NodeID: path[len(path)-1], HintIndex: 0, Affinity: 0.8}},
	}
}

func unmatched(path []int64, score float64) *types.CandidatePath {
	return &types.CandidatePath{
		Path:       path,
		FinalScore: score,
		Depth:      len(path) - 1,
	}
}

func TestRankEmpty(t *testing.T) {
	ranker := NewCandidateRanker(nil, nil)
	if got := ranker.Rank(nil); len(got) != 0 {
		t.Errorf("expected empty result for no candidates, got %d", len(got))
	}
}

func TestRankOrdersByFinalScore(t *testing.T) {
	ranker := NewCandidateRanker(nil, nil)

	ranked := ranker.Rank([]*types.CandidatePath{
		matched([]int64{1, 2}, 0.5),
		matched([]int64{1, 3}, 1.5),
		matched([]int64{1, 4}, 1.0),
	})

	if len(ranked) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].FinalScore > ranked[i-1].FinalScore {
			t.Error("candidates must come back in descending final-score order")
		}
	}
}

func TestRankAcceptsDeepUnmatchedAboveFloor(t *testing.T) {
	ranker := NewCandidateRanker(nil, nil)

	ranked := ranker.Rank([]*types.CandidatePath{
		unmatched([]int64{1, 2, 3}, 0.9), // deep enough, above the floor
		unmatched([]int64{1, 4, 5}, 0.2), // deep enough, below the floor
		unmatched([]int64{1, 6}, 2.0),    // high score but shallow
	})

	if len(ranked) != 1 {
		t.Fatalf("expected exactly one accepted candidate, got %d", len(ranked))
	}
	if ranked[0].Leaf() != 3 {
		t.Errorf("expected the deep above-floor path to survive, got %v", ranked[0].Path)
	}
}

func TestRankFallbackWhenNothingPasses(t *testing.T) {
	ranker := NewCandidateRanker(nil, nil)

	candidates := []*types.CandidatePath{
		unmatched([]int64{1, 2}, 0.4),
		unmatched([]int64{1, 3}, 0.3),
		unmatched([]int64{1, 4}, 0.2),
		unmatched([]int64{1, 5}, 0.1),
	}

	ranked := ranker.Rank(candidates)
	if len(ranked) != fallbackCandidates {
		t.Fatalf("expected %d fallback candidates, got %d", fallbackCandidates, len(ranked))
	}
	if ranked[0].Leaf() != 2 {
		t.Errorf("fallback must still rank by score, got %v first", ranked[0].Path)
	}
}

func TestRankTruncatesToMaxCandidates(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.MaxCandidates = 2
	ranker := NewCandidateRanker(cfg, nil)

	ranked := ranker.Rank([]*types.CandidatePath{
		matched([]int64{1, 2}, 0.9),
		matched([]int64{1, 3}, 0.8),
		matched([]int64{1, 4}, 0.7),
	})

	if len(ranked) != 2 {
		t.Errorf("expected truncation to 2 candidates, got %d", len(ranked))
	}
}

func TestSortCandidatesTieBreaks(t *testing.T) {
	candidates := []*types.CandidatePath{
		matched([]int64{1, 3, 4}, 1.0),
		matched([]int64{1, 2}, 1.0),
		matched([]int64{1, 3}, 1.0),
	}

	sortCandidates(candidates)

	// Equal scores: shallower first, then lexicographic path order.
	if candidates[0].Leaf() != 2 || candidates[1].Leaf() != 3 {
		t.Errorf("unexpected tie-break order: %v, %v, %v",
			candidates[0].Path, candidates[1].Path, candidates[2].Path)
	}
	if candidates[2].Depth != 2 {
		t.Errorf("expected the deeper path last, got %v", candidates[2].Path)
	}
}
