package taxonomy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/soundprediction/classifico/pkg/types"
)

// MemoryStore is an in-memory Store. It backs tests, the YAML loader,
// and small deployments where the whole tree fits comfortably in
// memory. Reads take snapshots; usage writes are serialized behind a
// mutex and only ever happen between classification calls.
type MemoryStore struct {
	mu       sync.RWMutex
	nodes    map[int64]*types.TaxonomyNode
	children map[int64][]int64
	usage    map[int64]uint64
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ UsageRecorder = (*MemoryStore)(nil)
	_ Writer        = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:    make(map[int64]*types.TaxonomyNode),
		children: make(map[int64][]int64),
		usage:    make(map[int64]uint64),
	}
}

// UpsertNode inserts or replaces a node. Non-root nodes require an
// existing parent, which keeps the structure a tree by construction.
func (s *MemoryStore) UpsertNode(ctx context.Context, node *types.TaxonomyNode) error {
	if node == nil || node.ID == types.RootParentID {
		return fmt.Errorf("invalid taxonomy node")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !node.IsRoot() {
		if _, ok := s.nodes[node.ParentID]; !ok {
			return fmt.Errorf("parent %d of node %d: %w", node.ParentID, node.ID, ErrNodeNotFound)
		}
	}

	if existing, ok := s.nodes[node.ID]; ok && existing.ParentID != node.ParentID {
		s.removeChild(existing.ParentID, node.ID)
	}

	copied := *node
	s.nodes[node.ID] = &copied
	s.addChild(node.ParentID, node.ID)
	if _, ok := s.usage[node.ID]; !ok {
		s.usage[node.ID] = node.UsageCount
	}
	return nil
}

func (s *MemoryStore) addChild(parentID, id int64) {
	ids := s.children[parentID]
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	ids = append(ids, id)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	s.children[parentID] = ids
}

func (s *MemoryStore) removeChild(parentID, id int64) {
	ids := s.children[parentID]
	for i, existing := range ids {
		if existing == id {
			s.children[parentID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Node returns a snapshot of the node with the given id.
func (s *MemoryStore) Node(ctx context.Context, id int64) (*types.TaxonomyNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return s.snapshot(node), nil
}

// Children returns snapshots of the direct children in ascending ID
// order.
func (s *MemoryStore) Children(ctx context.Context, parentID int64) ([]*types.TaxonomyNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.children[parentID]
	children := make([]*types.TaxonomyNode, 0, len(ids))
	for _, id := range ids {
		if node, ok := s.nodes[id]; ok {
			children = append(children, s.snapshot(node))
		}
	}
	return children, nil
}

// UsageCount returns the usage counter for a node.
func (s *MemoryStore) UsageCount(ctx context.Context, id int64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return 0, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return s.usage[id], nil
}

// RecordUsage increments the usage counter of every given node.
func (s *MemoryStore) RecordUsage(ctx context.Context, nodeIDs ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range nodeIDs {
		if _, ok := s.nodes[id]; !ok {
			return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
		}
		s.usage[id]++
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// snapshot copies a node with its current usage counter. Caller must
// hold at least the read lock.
func (s *MemoryStore) snapshot(node *types.TaxonomyNode) *types.TaxonomyNode {
	copied := *node
	copied.UsageCount = s.usage[node.ID]
	return &copied
}

// Len returns the number of nodes in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
