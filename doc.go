// Package classifico classifies free-form concept strings into a
// pre-existing hierarchical taxonomy.
//
// Classification runs in two phases over a read-only taxonomy snapshot.
// Phase 1 is an exploratory beam search from the taxonomy root: each
// candidate node is scored by semantic similarity against the subject's
// type hints plus a Dirichlet-smoothed usage prior, and per-node hint
// affinities are recorded along the way. Phase 2 assigns hints to path
// nodes globally (one node per hint, one hint per node), scores how
// well the assignment order follows the path, and composes the final
// score. A ranker validates, sorts, and truncates the results.
//
// The entry point is the Client:
//
//	client, err := classifico.NewClient(store, embedClient, nil, nil)
//	candidates, err := client.Classify(ctx, "Stanford University")
//
// Hints come from a pluggable oracle.HintExtractor; with no LLM
// configured a deterministic heuristic extractor is used. Optional
// oracles (branch selection at the root, post-ranking verification)
// refine the search but are never required: every oracle failure
// degrades to embedding-only behavior.
//
// Taxonomy storage is pluggable through taxonomy.Store, with in-memory,
// BadgerDB, and Neo4j backends and a YAML seed loader.
package classifico
