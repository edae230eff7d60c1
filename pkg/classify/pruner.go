package classify

import (
	"github.com/soundprediction/classifico/pkg/types"
	"github.com/soundprediction/classifico/pkg/utils"
)

// ChildPruner bounds the branching factor before any other scoring
// runs. Pruning keys on the maximum hint similarity per child, which
// costs O(children * hints) per level instead of letting every beam
// state rescore the full child list.
type ChildPruner struct {
	fanout int
}

// NewChildPruner creates a pruner with the given fan-out bound.
func NewChildPruner(fanout int) *ChildPruner {
	if fanout <= 0 {
		fanout = DefaultSearchConfig().ChildFanout
	}
	return &ChildPruner{fanout: fanout}
}

// Prune keeps the top-fanout children by maximum hint similarity when
// the child count exceeds the bound, otherwise returns the input
// unchanged. The returned slice is ordered by descending similarity.
func (p *ChildPruner) Prune(children []*types.TaxonomyNode, hints *types.HintSet) []*types.TaxonomyNode {
	if len(children) <= p.fanout {
		return children
	}

	scored := make([]utils.ScoredItem[*types.TaxonomyNode], len(children))
	for i, child := range children {
		scored[i] = utils.ScoredItem[*types.TaxonomyNode]{
			Item:  child,
			Score: maxHintSimilarity(child.Embedding, hints),
		}
	}

	top := utils.TopKByScore(scored, p.fanout)
	kept := make([]*types.TaxonomyNode, len(top))
	for i, item := range top {
		kept[i] = item.Item
	}
	return kept
}
