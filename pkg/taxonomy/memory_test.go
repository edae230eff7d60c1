package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/classifico/pkg/types"
)

func newPopulatedStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	nodes := []*types.TaxonomyNode{
		{ID: 1, Label: "entity", ParentID: types.RootParentID},
		{ID: 2, Label: "organization", ParentID: 1},
		{ID: 3, Label: "location", ParentID: 1},
		{ID: 4, Label: "university", ParentID: 2},
	}
	for _, node := range nodes {
		if err := store.UpsertNode(context.Background(), node); err != nil {
			t.Fatalf("upsert %d: %v", node.ID, err)
		}
	}
	return store
}

func TestMemoryStoreNode(t *testing.T) {
	store := newPopulatedStore(t)

	node, err := store.Node(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Label != "organization" {
		t.Errorf("expected organization, got %s", node.Label)
	}

	_, err = store.Node(context.Background(), 99)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestMemoryStoreChildrenSorted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.UpsertNode(ctx, &types.TaxonomyNode{ID: 1, Label: "root", ParentID: types.RootParentID}); err != nil {
		t.Fatal(err)
	}
	// Insert out of order; reads must come back ascending by ID.
	for _, id := range []int64{9, 3, 7, 5} {
		if err := store.UpsertNode(ctx, &types.TaxonomyNode{ID: id, Label: "child", ParentID: 1}); err != nil {
			t.Fatal(err)
		}
	}

	children, err := store.Children(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []int64{3, 5, 7, 9}
	if len(children) != len(expected) {
		t.Fatalf("expected %d children, got %d", len(expected), len(children))
	}
	for i, child := range children {
		if child.ID != expected[i] {
			t.Errorf("child %d: expected id %d, got %d", i, expected[i], child.ID)
		}
	}
}

func TestMemoryStoreUpsertRequiresParent(t *testing.T) {
	store := NewMemoryStore()
	err := store.UpsertNode(context.Background(), &types.TaxonomyNode{ID: 2, Label: "orphan", ParentID: 1})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound for missing parent, got %v", err)
	}
}

func TestMemoryStoreUpsertRejectsReservedID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.UpsertNode(context.Background(), &types.TaxonomyNode{ID: types.RootParentID, Label: "bad"}); err == nil {
		t.Error("expected error for the reserved parent id")
	}
	if err := store.UpsertNode(context.Background(), nil); err == nil {
		t.Error("expected error for nil node")
	}
}

func TestMemoryStoreReparent(t *testing.T) {
	store := newPopulatedStore(t)
	ctx := context.Background()

	if err := store.UpsertNode(ctx, &types.TaxonomyNode{ID: 4, Label: "university", ParentID: 3}); err != nil {
		t.Fatalf("reparent: %v", err)
	}

	orgChildren, err := store.Children(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(orgChildren) != 0 {
		t.Errorf("expected the old parent to lose the child, got %d children", len(orgChildren))
	}

	locChildren, err := store.Children(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(locChildren) != 1 || locChildren[0].ID != 4 {
		t.Errorf("expected the new parent to gain the child, got %v", locChildren)
	}
}

func TestMemoryStoreRecordUsage(t *testing.T) {
	store := newPopulatedStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, 2, 4); err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if err := store.RecordUsage(ctx, 4); err != nil {
		t.Fatalf("record usage: %v", err)
	}

	count, err := store.UsageCount(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected usage 2, got %d", count)
	}

	// Node reads carry the live counter.
	node, err := store.Node(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if node.UsageCount != 2 {
		t.Errorf("expected snapshot usage 2, got %d", node.UsageCount)
	}

	if err := store.RecordUsage(ctx, 99); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound for unknown node, got %v", err)
	}
}

func TestMemoryStoreSnapshotsAreCopies(t *testing.T) {
	store := newPopulatedStore(t)

	node, err := store.Node(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	node.Label = "mutated"

	again, err := store.Node(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if again.Label != "organization" {
		t.Error("mutating a returned node must not affect the store")
	}
}

func TestMemoryStoreLen(t *testing.T) {
	store := newPopulatedStore(t)
	if store.Len() != 4 {
		t.Errorf("expected 4 nodes, got %d", store.Len())
	}
}
