package taxonomy

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/classifico/pkg/types"
	"github.com/soundprediction/classifico/pkg/utils"
)

// Embedder is the minimal embedding surface the YAML loader needs.
// pkg/embedder clients satisfy it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// YAMLNode is one tree node in a taxonomy seed file:
//
//	label: thing
//	children:
//	  - label: person
//	  - label: place
//	    children:
//	      - label: city
type YAMLNode struct {
	Label    string     `yaml:"label"`
	Usage    uint64     `yaml:"usage,omitempty"`
	Children []YAMLNode `yaml:"children,omitempty"`
}

// LoadYAMLFile reads a taxonomy seed file and returns a populated
// MemoryStore. Labels are embedded in one batch through the given
// embedder and L2-normalized before storage.
func LoadYAMLFile(ctx context.Context, path string, embedder Embedder) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening taxonomy file: %w", err)
	}
	defer f.Close()
	return LoadYAML(ctx, f, embedder)
}

// LoadYAML reads a taxonomy seed document from r. The document must
// contain exactly one root node.
func LoadYAML(ctx context.Context, r io.Reader, embedder Embedder) (*MemoryStore, error) {
	var root YAMLNode
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding taxonomy yaml: %w", err)
	}
	if root.Label == "" {
		return nil, fmt.Errorf("taxonomy root has no label")
	}

	// Assign IDs in document order so the tree layout is stable across
	// reloads of the same file.
	type flatNode struct {
		id       int64
		parentID int64
		label    string
		usage    uint64
	}
	var flat []flatNode
	var nextID int64 = 1

	var walk func(node YAMLNode, parentID int64) error
	walk = func(node YAMLNode, parentID int64) error {
		if node.Label == "" {
			return fmt.Errorf("taxonomy node under parent %d has no label", parentID)
		}
		id := nextID
		nextID++
		flat = append(flat, flatNode{id: id, parentID: parentID, label: node.Label, usage: node.Usage})
		for _, child := range node.Children {
			if err := walk(child, id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, types.RootParentID); err != nil {
		return nil, err
	}

	labels := make([]string, len(flat))
	for i, node := range flat {
		labels[i] = node.label
	}

	var embeddings [][]float32
	if embedder != nil {
		var err error
		embeddings, err = embedder.Embed(ctx, labels)
		if err != nil {
			return nil, fmt.Errorf("embedding %d taxonomy labels: %w", len(labels), err)
		}
		if len(embeddings) != len(labels) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d labels", len(embeddings), len(labels))
		}
	}

	store := NewMemoryStore()
	for i, node := range flat {
		var embedding []float32
		if embeddings != nil {
			embedding = utils.Normalize(embeddings[i])
		}
		err := store.UpsertNode(ctx, &types.TaxonomyNode{
			ID:         node.id,
			Label:      node.label,
			ParentID:   node.parentID,
			Embedding:  embedding,
			UsageCount: node.usage,
		})
		if err != nil {
			return nil, err
		}
	}
	return store, nil
}
