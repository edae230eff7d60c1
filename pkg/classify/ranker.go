package classify

import (
	"log/slog"
	"sort"

	"github.com/soundprediction/classifico/pkg/types"
)

// fallbackCandidates is how many unfiltered paths the ranker returns
// when nothing passes validation. Having explored paths and returning
// none would force the caller into a placeholder classification for no
// reason.
const fallbackCandidates = 3

// CandidateRanker validates, sorts, and truncates the engine's output
// for the caller.
type CandidateRanker struct {
	config *SearchConfig
	logger *slog.Logger
}

// NewCandidateRanker creates a ranker. A nil config uses
// DefaultSearchConfig; a nil logger uses slog.Default.
func NewCandidateRanker(config *SearchConfig, logger *slog.Logger) *CandidateRanker {
	if config == nil {
		config = DefaultSearchConfig()
	}
	config.sanitize()
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateRanker{config: config, logger: logger}
}

// Rank returns the accepted candidates in descending final-score order,
// truncated to the configured maximum. A path is accepted when it
// matched at least one hint, or when it is at least two levels deep
// with a final score above the floor. When no path passes, the top
// unfiltered paths are returned instead.
func (r *CandidateRanker) Rank(candidates []*types.CandidatePath) []*types.CandidatePath {
	if len(candidates) == 0 {
		return []*types.CandidatePath{}
	}

	accepted := make([]*types.CandidatePath, 0, len(candidates))
	for _, c := range candidates {
		if c.Matched() || (c.Depth >= 2 && c.FinalScore > r.config.AcceptScoreFloor) {
			accepted = append(accepted, c)
		}
	}

	limit := r.config.MaxCandidates
	if len(accepted) == 0 {
		r.logger.Debug("no candidate passed validation, falling back to top unfiltered paths",
			"explored", len(candidates))
		accepted = append(accepted, candidates...)
		limit = fallbackCandidates
	}

	sortCandidates(accepted)
	if len(accepted) > limit {
		accepted = accepted[:limit]
	}
	return accepted
}

// sortCandidates orders by final score descending with deterministic
// tie-breaks (shallower first, then lexicographic path order).
func sortCandidates(candidates []*types.CandidatePath) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return pathLess(a.Path, b.Path)
	})
}
