package classify

import (
	"sort"

	"github.com/soundprediction/classifico/pkg/types"
)

// bestLocation is the strongest recorded match for one hint along a
// completed path.
type bestLocation struct {
	nodeID   int64
	pathPos  int
	affinity float64
}

// buildCandidate resolves hint assignments globally for one completed
// path and composes its final score. Phase 1 may have recorded the same
// hint against several nodes on the path; here each hint binds to at
// most one node and each node to at most one hint.
func (e *Engine) buildCandidate(state *beamState, hints *types.HintSet, labels map[int64]string) *types.CandidatePath {
	locations := bestLocations(state, hints.Len())
	assignments := resolveAssignments(locations, hints.Len())

	var hintBonus float64
	for _, a := range assignments {
		hintBonus += e.config.HintWeight * a.affinity * hints.Hints[a.hintIndex].PositionWeight
	}

	orderScore := e.orderScore(assignments)
	finalScore := state.score + hintBonus + orderScore

	depth := len(state.path) - 1
	avgScore := finalScore
	if depth > 0 {
		avgScore = finalScore / float64(depth)
	}

	pathLabels := make([]string, len(state.path))
	for i, nodeID := range state.path {
		pathLabels[i] = labels[nodeID]
	}

	out := make([]types.HintAssignment, len(assignments))
	for i, a := range assignments {
		out[i] = types.HintAssignment{
			NodeID:    a.nodeID,
			HintIndex: a.hintIndex,
			Affinity:  a.affinity,
		}
	}

	e.logger.Debug("assignment",
		"path_depth", depth, "assignments", len(out),
		"base_score", state.score, "hint_bonus", hintBonus, "order_score", orderScore)

	return &types.CandidatePath{
		Path:        state.path,
		Labels:      pathLabels,
		BaseScore:   state.score,
		HintBonus:   hintBonus,
		OrderScore:  orderScore,
		FinalScore:  finalScore,
		AvgScore:    avgScore,
		Assignments: out,
		Depth:       depth,
	}
}

// bestLocations finds, per hint index, the node on the path with the
// highest recorded affinity for that hint. Ties keep the node closer to
// the root. Entries are nil for hints that matched nothing.
func bestLocations(state *beamState, hintCount int) []*bestLocation {
	locations := make([]*bestLocation, hintCount)
	for pos, nodeID := range state.path {
		byHint, ok := state.affinities[nodeID]
		if !ok {
			continue
		}
		for hint := 0; hint < hintCount; hint++ {
			affinity, ok := byHint[hint]
			if !ok {
				continue
			}
			current := locations[hint]
			if current == nil || affinity > current.affinity {
				locations[hint] = &bestLocation{
					nodeID:   nodeID,
					pathPos:  pos,
					affinity: affinity,
				}
			}
		}
	}
	return locations
}

// resolvedAssignment is one hint bound to one node after conflict
// resolution, with the node's position on the path retained for
// ordering scoring.
type resolvedAssignment struct {
	nodeID    int64
	pathPos   int
	hintIndex int
	affinity  float64
}

// resolveAssignments settles conflicts greedily: hints are processed in
// descending order of their best affinity (ties by hint index), and a
// hint claims its best node only if no stronger hint already holds it.
// The result is injective in both directions and returned in path
// order.
func resolveAssignments(locations []*bestLocation, hintCount int) []resolvedAssignment {
	order := make([]int, 0, hintCount)
	for hint, loc := range locations {
		if loc != nil {
			order = append(order, hint)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := locations[order[i]], locations[order[j]]
		if a.affinity != b.affinity {
			return a.affinity > b.affinity
		}
		return order[i] < order[j]
	})

	claimed := make(map[int64]bool, len(order))
	assignments := make([]resolvedAssignment, 0, len(order))
	for _, hint := range order {
		loc := locations[hint]
		if claimed[loc.nodeID] {
			continue
		}
		claimed[loc.nodeID] = true
		assignments = append(assignments, resolvedAssignment{
			nodeID:    loc.nodeID,
			pathPos:   loc.pathPos,
			hintIndex: hint,
			affinity:  loc.affinity,
		})
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].pathPos < assignments[j].pathPos
	})
	return assignments
}

// orderScore compares the sequence of assigned hint indices in path
// order. Hints arrive importance-ordered, so a path that matches them
// in that same order is more credible than one that matches them
// backwards. Ordering keys on the node's position within the path, not
// on raw node identifiers, which carry no depth guarantee.
func (e *Engine) orderScore(assignments []resolvedAssignment) float64 {
	if len(assignments) < 2 {
		return 0
	}

	inOrder, inverted := 0, 0
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			if assignments[i].hintIndex < assignments[j].hintIndex {
				inOrder++
			} else {
				inverted++
			}
		}
	}

	total := inOrder + inverted
	if total == 0 {
		return 0
	}
	ratio := float64(inOrder) / float64(total)

	switch {
	case ratio > e.config.InOrderRatioHigh:
		return e.config.OrderBonusWeight * ratio
	case ratio < e.config.InOrderRatioLow:
		return -e.config.OrderPenaltyWeight * (1 - ratio)
	default:
		return 0
	}
}
