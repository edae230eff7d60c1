// Package types contains the shared data model for the classifico
// taxonomy classification engine.
//
// The central types are:
//   - TaxonomyNode: one entry in the hierarchical classification tree
//   - Hint and HintSet: importance-ordered type hints for a subject
//   - CandidatePath: a fully scored root-to-node classification option
//
// Types in this package are plain data carriers with no behavior beyond
// small accessors and validation. The search logic that produces and
// consumes them lives in pkg/classify.
package types
