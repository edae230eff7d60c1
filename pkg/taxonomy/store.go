// Package taxonomy provides read access to the classification tree and
// its usage counters. The tree is read-mostly: the search engine only
// reads snapshots, and usage writes happen strictly after a
// classification call completes.
package taxonomy

import (
	"context"
	"errors"

	"github.com/soundprediction/classifico/pkg/types"
)

// ErrNodeNotFound is returned when a node id does not resolve.
var ErrNodeNotFound = errors.New("taxonomy node not found")

// Store provides read access to taxonomy nodes. Implementations must be
// safe for concurrent readers. Children must be returned in ascending
// ID order with usage-count snapshots populated, so that repeated
// searches over the same snapshot are deterministic.
type Store interface {
	// Node returns the node with the given id, or ErrNodeNotFound.
	Node(ctx context.Context, id int64) (*types.TaxonomyNode, error)

	// Children returns the direct children of the given parent in
	// ascending ID order. A node with no children is a leaf; an empty
	// slice is not an error.
	Children(ctx context.Context, parentID int64) ([]*types.TaxonomyNode, error)

	// UsageCount returns the historical classification count for a node.
	UsageCount(ctx context.Context, id int64) (uint64, error)

	// Close releases store resources.
	Close() error
}

// UsageRecorder is implemented by stores that can persist the outcome
// of a classification. Recording happens outside the search call, after
// the caller has accepted a candidate.
type UsageRecorder interface {
	// RecordUsage increments the usage counter of every node on the
	// accepted path.
	RecordUsage(ctx context.Context, nodeIDs ...int64) error
}

// Writer is implemented by stores that support seeding or maintaining
// the tree itself. The engine never writes; this exists for loaders and
// administrative tooling.
type Writer interface {
	// UpsertNode inserts or replaces a node. The parent must already
	// exist unless the node is a root.
	UpsertNode(ctx context.Context, node *types.TaxonomyNode) error
}
