package types

// HintAssignment binds one hint to one node on a candidate path.
// Within a CandidatePath the set of assignments is injective in both
// directions: no node claims two hints and no hint claims two nodes.
type HintAssignment struct {
	NodeID    int64   `json:"node_id"`
	HintIndex int     `json:"hint_index"`
	Affinity  float64 `json:"affinity"`
}

// CandidatePath is a fully scored root-to-node classification option.
// It is produced once per completed path at the end of the assignment
// phase and is immutable afterwards; the engine does not persist it.
type CandidatePath struct {
	// Path holds node IDs from the category root to the classified node.
	Path []int64 `json:"path"`

	// Labels holds the node labels in the same order as Path.
	Labels []string `json:"labels"`

	// BaseScore accumulates semantic similarity and usage prior over
	// every hop of the path.
	BaseScore float64 `json:"base_score"`

	// HintBonus is the weighted sum of assigned hint affinities.
	HintBonus float64 `json:"hint_bonus"`

	// OrderScore rewards assignments whose hint order follows the path
	// order and penalizes heavily inverted ones.
	OrderScore float64 `json:"order_score"`

	// FinalScore = BaseScore + HintBonus + OrderScore.
	FinalScore float64 `json:"final_score"`

	// AvgScore is FinalScore normalized by depth, for comparing
	// candidates of different lengths.
	AvgScore float64 `json:"avg_score"`

	// Assignments is the injective hint-to-node matching.
	Assignments []HintAssignment `json:"assignments"`

	// Depth is the number of hops below the root, i.e. len(Path)-1.
	Depth int `json:"depth"`
}

// Leaf returns the ID of the deepest node on the path, or 0 for an
// empty path.
func (c *CandidatePath) Leaf() int64 {
	if len(c.Path) == 0 {
		return 0
	}
	return c.Path[len(c.Path)-1]
}

// Matched reports whether at least one hint was assigned to a node on
// this path.
func (c *CandidatePath) Matched() bool {
	return len(c.Assignments) > 0
}
