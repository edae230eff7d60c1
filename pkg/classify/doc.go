// Package classify implements the taxonomy classification search
// engine: a two-phase beam search that navigates a taxonomy tree and
// returns ranked candidate classification paths for a set of type
// hints.
//
// Phase 1 (exploration) expands a bounded beam of partial paths level
// by level. Each hop accumulates a base score from semantic similarity
// and a Dirichlet-smoothed usage prior, and records sparse per-hint
// affinities for every node it visits. A temporary hop score (base
// plus the best affinity of the hop) decides which states survive to
// the next depth; it is discarded afterwards and never appears in the
// final score.
//
// Phase 2 (assignment) resolves hint matches globally per completed
// path: each hint is bound to at most one node and each node to at
// most one hint, preferring higher affinities. The weighted assignment
// bonus and an ordering score over the assigned hint sequence are added
// to the base score to produce the final ranking.
//
// The engine is deterministic: given the same taxonomy snapshot, hints,
// embeddings, and configuration, repeated searches return identical
// output. All scoring is side-effect free and one classification call
// never shares mutable state with another.
package classify
