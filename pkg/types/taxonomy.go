package types

// RootParentID is the ParentID value carried by a taxonomy root node.
const RootParentID int64 = 0

// TaxonomyNode is one entry in the hierarchical classification tree.
// The tree is owned by the taxonomy store; during a classification call
// the engine only holds read references to nodes, so a node must never
// be mutated after it has been handed out.
type TaxonomyNode struct {
	// ID is the stable identifier of the node within its store.
	ID int64 `json:"id"`

	// Label is the human-readable category name, e.g. "musical instrument".
	Label string `json:"label"`

	// ParentID is the identifier of the owning parent, or RootParentID
	// for the single root of a node-type category.
	ParentID int64 `json:"parent_id"`

	// Embedding is the precomputed, L2-normalized embedding of Label.
	// A nil or zero-norm embedding scores 0 against every hint rather
	// than failing the search.
	Embedding []float32 `json:"-"`

	// UsageCount is a read-only snapshot of how often this node has been
	// chosen for classification. Staleness between concurrent calls is
	// acceptable; the count only feeds a soft prior.
	UsageCount uint64 `json:"usage_count"`
}

// IsRoot reports whether the node is a category root.
func (n *TaxonomyNode) IsRoot() bool {
	return n.ParentID == RootParentID
}

// BranchChoice is one ranked branch returned by a branch-selection
// oracle at the first tree level. Reasoning is informational only and
// never feeds score composition.
type BranchChoice struct {
	Label     string  `json:"label"`
	Relevance float64 `json:"relevance"`
	Reasoning string  `json:"reasoning,omitempty"`
}
