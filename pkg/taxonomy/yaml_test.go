package taxonomy

import (
	"context"
	"strings"
	"testing"

	"github.com/soundprediction/classifico/pkg/utils"
)

const seedYAML = `
label: entity
children:
  - label: organization
    usage: 3
    children:
      - label: university
  - label: location
`

// stubEmbedder returns a fixed unnormalized vector per label.
type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{2, 0, 0}
	}
	return out, nil
}

func TestLoadYAML(t *testing.T) {
	embedder := &stubEmbedder{}
	store, err := LoadYAML(context.Background(), strings.NewReader(seedYAML), embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", store.Len())
	}
	if embedder.calls != 1 {
		t.Errorf("expected one batched embedding call, got %d", embedder.calls)
	}

	// IDs follow document order: root 1, organization 2, university 3,
	// location 4.
	root, err := store.Node(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if root.Label != "entity" || !root.IsRoot() {
		t.Errorf("unexpected root node: %+v", root)
	}

	university, err := store.Node(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if university.Label != "university" || university.ParentID != 2 {
		t.Errorf("unexpected node 3: %+v", university)
	}

	location, err := store.Node(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if location.Label != "location" || location.ParentID != 1 {
		t.Errorf("unexpected node 4: %+v", location)
	}
}

func TestLoadYAMLNormalizesEmbeddings(t *testing.T) {
	store, err := LoadYAML(context.Background(), strings.NewReader(seedYAML), &stubEmbedder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := store.Node(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if mag := utils.Magnitude(node.Embedding); mag < 0.999 || mag > 1.001 {
		t.Errorf("expected unit-norm embedding, got magnitude %f", mag)
	}
}

func TestLoadYAMLCarriesUsage(t *testing.T) {
	store, err := LoadYAML(context.Background(), strings.NewReader(seedYAML), &stubEmbedder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := store.UsageCount(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected seeded usage 3, got %d", count)
	}
}

func TestLoadYAMLNilEmbedder(t *testing.T) {
	store, err := LoadYAML(context.Background(), strings.NewReader(seedYAML), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := store.Node(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if node.Embedding != nil {
		t.Error("expected no embeddings without an embedder")
	}
}

func TestLoadYAMLMissingRootLabel(t *testing.T) {
	_, err := LoadYAML(context.Background(), strings.NewReader("children: []"), nil)
	if err == nil {
		t.Error("expected error for unlabeled root")
	}
}

func TestLoadYAMLMissingChildLabel(t *testing.T) {
	doc := "label: root\nchildren:\n  - usage: 1\n"
	_, err := LoadYAML(context.Background(), strings.NewReader(doc), nil)
	if err == nil {
		t.Error("expected error for unlabeled child")
	}
}
