package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/soundprediction/classifico/pkg/taxonomy"
	"github.com/soundprediction/classifico/pkg/types"
	"github.com/soundprediction/classifico/pkg/utils"
)

// ErrRootNotFound is returned when the requested root id does not
// resolve to a taxonomy node. This is a configuration error; the caller
// owns any fallback classification.
var ErrRootNotFound = errors.New("taxonomy root not found")

// BranchSelector is an optional oracle consulted once, at the root's
// direct children, when fan-out is large. Absence or an empty answer
// means no pruning from this stage.
type BranchSelector interface {
	Select(ctx context.Context, children []*types.TaxonomyNode, subject string) ([]types.BranchChoice, error)
}

// beamState is one in-progress search path. States are never mutated in
// place: every expansion produces a fresh state, and a state is dropped
// once it falls out of the beam or completes.
type beamState struct {
	path  []int64
	score float64 // accumulated base score (similarity + prior)

	// hopScore is the pruning key for this depth only: base score plus
	// the best affinity recorded on the latest hop. It never feeds the
	// final score.
	hopScore float64

	// affinities maps node id -> hint index -> recorded affinity for
	// every node visited on this path.
	affinities map[int64]map[int]float64

	depth int
}

func (s *beamState) last() int64 {
	return s.path[len(s.path)-1]
}

// Engine runs the two-phase beam search over a taxonomy store.
type Engine struct {
	store    taxonomy.Store
	pruner   *ChildPruner
	prior    *UsagePriorEstimator
	selector BranchSelector
	config   *SearchConfig
	logger   *slog.Logger
}

// NewEngine creates a search engine over the given store. A nil config
// uses DefaultSearchConfig; a nil logger uses slog.Default.
func NewEngine(store taxonomy.Store, config *SearchConfig, logger *slog.Logger) *Engine {
	if config == nil {
		config = DefaultSearchConfig()
	}
	config.sanitize()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		pruner: NewChildPruner(config.ChildFanout),
		prior:  NewUsagePriorEstimator(config.DirichletBeta),
		config: config,
		logger: logger,
	}
}

// SetBranchSelector installs the optional first-level branch oracle.
func (e *Engine) SetBranchSelector(selector BranchSelector) {
	e.selector = selector
}

// Config returns the engine's search configuration.
func (e *Engine) Config() *SearchConfig {
	return e.config
}

// Search explores the tree below rootID and returns one scored
// candidate per completed path, unranked. Callers run the results
// through a CandidateRanker. The subject string is only handed to the
// branch-selection oracle for context.
func (e *Engine) Search(ctx context.Context, rootID int64, hints *types.HintSet, subject string) ([]*types.CandidatePath, error) {
	if hints == nil || hints.Len() == 0 {
		return nil, types.ErrNoHints
	}

	root, err := e.store.Node(ctx, rootID)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNodeNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrRootNotFound, rootID)
		}
		return nil, fmt.Errorf("resolving root %d: %w", rootID, err)
	}

	labels := map[int64]string{root.ID: root.Label}

	frontier := []*beamState{{
		path:       []int64{rootID},
		affinities: map[int64]map[int]float64{},
	}}
	var completed []*beamState
	prevBest := math.Inf(-1)

	for depth := 0; depth < e.config.MaxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var expanded []*beamState
		for _, state := range frontier {
			children, err := e.store.Children(ctx, state.last())
			if err != nil {
				// One bad fetch must not poison sibling branches; the
				// state completes as-is.
				e.logger.Warn("child fetch failed, treating state as leaf",
					"node_id", state.last(), "depth", depth, "error", err)
				completed = append(completed, state)
				continue
			}
			if len(children) == 0 {
				completed = append(completed, state)
				continue
			}

			// The prior normalizes over every sibling, even the ones the
			// branch oracle rules out below.
			siblings := children
			if depth == 0 {
				children = e.selectBranches(ctx, children, subject)
			}
			kept := e.pruner.Prune(children, hints)
			e.logger.Debug("pruning",
				"node_id", state.last(), "depth", depth,
				"children", len(children), "kept", len(kept))

			for _, child := range kept {
				labels[child.ID] = child.Label
				next, err := e.expand(state, child, siblings, hints)
				if err != nil {
					e.logger.Warn("child scoring failed, skipping child",
						"child_id", child.ID, "depth", depth, "error", err)
					continue
				}
				expanded = append(expanded, next)
			}
		}

		if len(expanded) == 0 {
			frontier = nil
			break
		}

		sort.SliceStable(expanded, func(i, j int) bool {
			if expanded[i].hopScore != expanded[j].hopScore {
				return expanded[i].hopScore > expanded[j].hopScore
			}
			return pathLess(expanded[i].path, expanded[j].path)
		})

		best := expanded[0].hopScore
		var keep []*beamState
		for i, state := range expanded {
			if i < e.config.BeamWidth || best-state.hopScore <= e.config.AlphaMargin {
				keep = append(keep, state)
			}
		}

		e.logger.Debug("expansion",
			"depth", depth+1, "states", len(expanded),
			"kept", len(keep), "best_hop_score", best)

		if depth+1 > 2 && best-prevBest < e.config.EarlyStopEpsilon {
			limit := 2 * e.config.BeamWidth
			if len(keep) > limit {
				keep = keep[:limit]
			}
			e.logger.Debug("early stop",
				"depth", depth+1, "best", best, "previous_best", prevBest)
			completed = append(completed, keep...)
			frontier = nil
			break
		}

		prevBest = best
		frontier = keep
	}

	// States that survived to max depth complete as-is.
	completed = append(completed, frontier...)

	candidates := make([]*types.CandidatePath, 0, len(completed))
	for _, state := range completed {
		candidates = append(candidates, e.buildCandidate(state, hints, labels))
	}
	return candidates, nil
}

// expand scores one child hop and returns the resulting state. Scoring
// runs behind panic recovery so one malformed node cannot take down the
// whole level.
func (e *Engine) expand(state *beamState, child *types.TaxonomyNode, siblings []*types.TaxonomyNode, hints *types.HintSet) (next *beamState, err error) {
	defer utils.RecoverAsError(&err)

	similarity := maxHintSimilarity(child.Embedding, hints)
	prior := e.prior.Prior(child, siblings)
	base := state.score + e.config.SimilarityWeight*similarity + e.config.PriorWeight*prior

	affinities, maxAffinity := hintAffinities(child, hints, e.config)

	path := make([]int64, len(state.path)+1)
	copy(path, state.path)
	path[len(state.path)] = child.ID

	merged := make(map[int64]map[int]float64, len(state.affinities)+1)
	for nodeID, byHint := range state.affinities {
		merged[nodeID] = byHint
	}
	if len(affinities) > 0 {
		merged[child.ID] = affinities
	}

	return &beamState{
		path:       path,
		score:      base,
		hopScore:   base + maxAffinity,
		affinities: merged,
		depth:      state.depth + 1,
	}, nil
}

// selectBranches consults the branch oracle for the root's children.
// The oracle runs only above the configured fan-out; when its top
// choice is decisive the search short-circuits to that single branch.
func (e *Engine) selectBranches(ctx context.Context, children []*types.TaxonomyNode, subject string) []*types.TaxonomyNode {
	if e.selector == nil || len(children) <= e.config.BranchSelectFanout {
		return children
	}

	choices, err := e.selector.Select(ctx, children, subject)
	if err != nil {
		e.logger.Warn("branch selector failed, keeping all branches", "error", err)
		return children
	}
	if len(choices) == 0 {
		return children
	}

	sort.SliceStable(choices, func(i, j int) bool {
		return choices[i].Relevance > choices[j].Relevance
	})

	wanted := choices
	if choices[0].Relevance > e.config.BranchShortCircuitTop &&
		(len(choices) == 1 || choices[1].Relevance < e.config.BranchShortCircuitRunnerUp) {
		wanted = choices[:1]
	}

	byLabel := make(map[string]*types.TaxonomyNode, len(children))
	for _, child := range children {
		byLabel[child.Label] = child
	}

	var selected []*types.TaxonomyNode
	for _, choice := range wanted {
		if node, ok := byLabel[choice.Label]; ok {
			selected = append(selected, node)
		}
	}
	if len(selected) == 0 {
		// The oracle answered with labels we do not know; ignore it.
		e.logger.Warn("branch selector returned no known labels", "choices", len(choices))
		return children
	}

	e.logger.Debug("branch selection",
		"children", len(children), "selected", len(selected),
		"top_relevance", choices[0].Relevance)
	return selected
}

// pathLess orders paths lexicographically by node id. It breaks score
// ties so that repeated searches over the same snapshot produce
// identical output.
func pathLess(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
