package classify

import (
	"math"

	"github.com/soundprediction/classifico/pkg/types"
)

// usagePriorFloor caps how hard an unexplored child can be punished
// relative to heavily used siblings.
const usagePriorFloor = -1.0

// UsagePriorEstimator converts historical classification counts into a
// smoothed log-probability bonus for a child given its parent. Counts
// are snapshots read at search time; staleness between concurrent
// calls is acceptable because the prior is a soft signal.
type UsagePriorEstimator struct {
	beta float64
}

// NewUsagePriorEstimator creates an estimator with the given Dirichlet
// smoothing constant.
func NewUsagePriorEstimator(beta float64) *UsagePriorEstimator {
	if beta <= 0 {
		beta = DefaultSearchConfig().DirichletBeta
	}
	return &UsagePriorEstimator{beta: beta}
}

// Prior returns max(log((count+beta) / (sum_sibling_counts + beta*n)),
// usagePriorFloor) for the child within its full sibling set. The
// sibling set must be the parent's complete (pre-pruning) child list so
// the distribution normalizes correctly.
func (e *UsagePriorEstimator) Prior(child *types.TaxonomyNode, siblings []*types.TaxonomyNode) float64 {
	if len(siblings) == 0 {
		return 0
	}

	var total float64
	for _, sibling := range siblings {
		total += float64(sibling.UsageCount)
	}

	denominator := total + e.beta*float64(len(siblings))
	if denominator <= 0 {
		return usagePriorFloor
	}

	prior := math.Log((float64(child.UsageCount) + e.beta) / denominator)
	if prior < usagePriorFloor {
		return usagePriorFloor
	}
	return prior
}
