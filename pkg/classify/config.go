package classify

// SearchConfig holds every tunable of the beam search. Zero values are
// not meaningful; start from DefaultSearchConfig and override fields.
type SearchConfig struct {
	// BeamWidth is the number of states retained per depth level.
	BeamWidth int `json:"beam_width" mapstructure:"beam_width"`

	// AlphaMargin additionally retains any state whose temporary hop
	// score is within this margin of the level best.
	AlphaMargin float64 `json:"alpha_margin" mapstructure:"alpha_margin"`

	// ChildFanout bounds how many children of a node are scored per
	// expansion; the rest are pruned by maximum hint similarity.
	ChildFanout int `json:"child_fanout" mapstructure:"child_fanout"`

	// MaxDepth bounds the number of tree levels explored below the root.
	MaxDepth int `json:"max_depth" mapstructure:"max_depth"`

	// EarlyStopEpsilon stops expansion beyond depth 2 when the best hop
	// score improves by less than this between consecutive depths.
	EarlyStopEpsilon float64 `json:"early_stop_epsilon" mapstructure:"early_stop_epsilon"`

	// HintMatchThreshold is the minimum combined affinity for a hint
	// match to be recorded against a node.
	HintMatchThreshold float64 `json:"hint_match_threshold" mapstructure:"hint_match_threshold"`

	// SimilarityWeight scales semantic similarity in the base score.
	SimilarityWeight float64 `json:"similarity_weight" mapstructure:"similarity_weight"`

	// PriorWeight scales the usage prior in the base score.
	PriorWeight float64 `json:"prior_weight" mapstructure:"prior_weight"`

	// HintWeight scales assigned affinities in the hint bonus.
	HintWeight float64 `json:"hint_weight" mapstructure:"hint_weight"`

	// OrderBonusWeight scales the reward for hint assignments that
	// follow path order.
	OrderBonusWeight float64 `json:"order_bonus_weight" mapstructure:"order_bonus_weight"`

	// OrderPenaltyWeight scales the penalty for heavily inverted
	// assignments.
	OrderPenaltyWeight float64 `json:"order_penalty_weight" mapstructure:"order_penalty_weight"`

	// InOrderRatioHigh and InOrderRatioLow bound the neutral band of
	// the ordering score.
	InOrderRatioHigh float64 `json:"in_order_ratio_high" mapstructure:"in_order_ratio_high"`
	InOrderRatioLow  float64 `json:"in_order_ratio_low" mapstructure:"in_order_ratio_low"`

	// CosineAffinityWeight and JaccardAffinityWeight mix embedding
	// similarity and token overlap in the per-hint affinity.
	CosineAffinityWeight  float64 `json:"cosine_affinity_weight" mapstructure:"cosine_affinity_weight"`
	JaccardAffinityWeight float64 `json:"jaccard_affinity_weight" mapstructure:"jaccard_affinity_weight"`

	// DirichletBeta is the smoothing constant of the usage prior.
	DirichletBeta float64 `json:"dirichlet_beta" mapstructure:"dirichlet_beta"`

	// BranchSelectFanout: the branch-selection oracle is consulted at
	// the root only when the root has more than this many children.
	BranchSelectFanout int `json:"branch_select_fanout" mapstructure:"branch_select_fanout"`

	// BranchShortCircuitTop and BranchShortCircuitRunnerUp control the
	// single-branch short circuit: when the oracle's top relevance
	// exceeds the former and the runner-up stays below the latter, only
	// the top branch is kept.
	BranchShortCircuitTop      float64 `json:"branch_short_circuit_top" mapstructure:"branch_short_circuit_top"`
	BranchShortCircuitRunnerUp float64 `json:"branch_short_circuit_runner_up" mapstructure:"branch_short_circuit_runner_up"`

	// AcceptScoreFloor is the final-score floor for accepting a path
	// that matched no hint but is at least two levels deep.
	AcceptScoreFloor float64 `json:"accept_score_floor" mapstructure:"accept_score_floor"`

	// MaxCandidates truncates the ranked result list.
	MaxCandidates int `json:"max_candidates" mapstructure:"max_candidates"`
}

// DefaultSearchConfig returns the tuning the engine was calibrated
// with.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		BeamWidth:                  3,
		AlphaMargin:                0.04,
		ChildFanout:                8,
		MaxDepth:                   7,
		EarlyStopEpsilon:           0.01,
		HintMatchThreshold:         0.25,
		SimilarityWeight:           1.0,
		PriorWeight:                0.5,
		HintWeight:                 0.8,
		OrderBonusWeight:           0.1,
		OrderPenaltyWeight:         0.15,
		InOrderRatioHigh:           0.7,
		InOrderRatioLow:            0.3,
		CosineAffinityWeight:       0.8,
		JaccardAffinityWeight:      0.2,
		DirichletBeta:              1.0,
		BranchSelectFanout:         5,
		BranchShortCircuitTop:      0.85,
		BranchShortCircuitRunnerUp: 0.5,
		AcceptScoreFloor:           0.5,
		MaxCandidates:              5,
	}
}

// sanitize fills non-positive structural fields with defaults so a
// partially populated config cannot stall the search.
func (c *SearchConfig) sanitize() {
	def := DefaultSearchConfig()
	if c.BeamWidth <= 0 {
		c.BeamWidth = def.BeamWidth
	}
	if c.ChildFanout <= 0 {
		c.ChildFanout = def.ChildFanout
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = def.MaxCandidates
	}
}
