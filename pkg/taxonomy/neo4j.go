package taxonomy

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/soundprediction/classifico/pkg/types"
)

// Neo4jStore reads the taxonomy tree from a Neo4j database. Nodes are
// labeled Taxon and point at their parent through CHILD_OF edges;
// label embeddings and usage counters live as node properties.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

var (
	_ Store         = (*Neo4jStore)(nil)
	_ UsageRecorder = (*Neo4jStore)(nil)
	_ Writer        = (*Neo4jStore)(nil)
)

// NewNeo4jStore creates a store backed by the given Neo4j instance.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: driver, database: database}, nil
}

// Node returns the node with the given id.
func (s *Neo4jStore) Node(ctx context.Context, id int64) (*types.TaxonomyNode, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (n:Taxon {id: $id})
			RETURN n.id AS id, n.label AS label, n.parent_id AS parent_id,
			       n.embedding AS embedding, n.usage_count AS usage_count
		`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching node %d: %w", id, err)
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return nodeFromRecord(records[0])
}

// Children returns direct children in ascending ID order.
func (s *Neo4jStore) Children(ctx context.Context, parentID int64) ([]*types.TaxonomyNode, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (c:Taxon)-[:CHILD_OF]->(p:Taxon {id: $parent_id})
			RETURN c.id AS id, c.label AS label, c.parent_id AS parent_id,
			       c.embedding AS embedding, c.usage_count AS usage_count
			ORDER BY c.id ASC
		`, map[string]any{"parent_id": parentID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching children of %d: %w", parentID, err)
	}

	records := result.([]*db.Record)
	children := make([]*types.TaxonomyNode, 0, len(records))
	for _, record := range records {
		child, err := nodeFromRecord(record)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// UsageCount returns the usage counter for a node.
func (s *Neo4jStore) UsageCount(ctx context.Context, id int64) (uint64, error) {
	node, err := s.Node(ctx, id)
	if err != nil {
		return 0, err
	}
	return node.UsageCount, nil
}

// RecordUsage increments the usage counter of every given node.
func (s *Neo4jStore) RecordUsage(ctx context.Context, nodeIDs ...int64) error {
	if len(nodeIDs) == 0 {
		return nil
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (n:Taxon)
			WHERE n.id IN $ids
			SET n.usage_count = coalesce(n.usage_count, 0) + 1
		`, map[string]any{"ids": nodeIDs})
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// UpsertNode inserts or replaces a node and its parent edge.
func (s *Neo4jStore) UpsertNode(ctx context.Context, node *types.TaxonomyNode) error {
	if node == nil || node.ID == types.RootParentID {
		return fmt.Errorf("invalid taxonomy node")
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		embedding := make([]any, len(node.Embedding))
		for i, v := range node.Embedding {
			embedding[i] = float64(v)
		}
		res, err := tx.Run(ctx, `
			MERGE (n:Taxon {id: $id})
			SET n.label = $label, n.parent_id = $parent_id,
			    n.embedding = $embedding,
			    n.usage_count = coalesce(n.usage_count, $usage_count)
		`, map[string]any{
			"id":          node.ID,
			"label":       node.Label,
			"parent_id":   node.ParentID,
			"embedding":   embedding,
			"usage_count": int64(node.UsageCount),
		})
		if err != nil {
			return nil, err
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		if node.IsRoot() {
			return nil, nil
		}
		res, err = tx.Run(ctx, `
			MATCH (c:Taxon {id: $id}), (p:Taxon {id: $parent_id})
			MERGE (c)-[:CHILD_OF]->(p)
		`, map[string]any{"id": node.ID, "parent_id": node.ParentID})
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
	if err != nil {
		return fmt.Errorf("upserting node %d: %w", node.ID, err)
	}
	return nil
}

// Close closes the driver connection pool.
func (s *Neo4jStore) Close() error {
	return s.client.Close(context.Background())
}

func nodeFromRecord(record *db.Record) (*types.TaxonomyNode, error) {
	node := &types.TaxonomyNode{}

	if v, ok := record.Get("id"); ok {
		if id, ok := v.(int64); ok {
			node.ID = id
		}
	}
	if v, ok := record.Get("label"); ok {
		if label, ok := v.(string); ok {
			node.Label = label
		}
	}
	if v, ok := record.Get("parent_id"); ok {
		if parentID, ok := v.(int64); ok {
			node.ParentID = parentID
		}
	}
	if v, ok := record.Get("usage_count"); ok {
		if count, ok := v.(int64); ok && count > 0 {
			node.UsageCount = uint64(count)
		}
	}
	if v, ok := record.Get("embedding"); ok {
		if raw, ok := v.([]any); ok {
			embedding := make([]float32, 0, len(raw))
			for _, item := range raw {
				switch x := item.(type) {
				case float64:
					embedding = append(embedding, float32(x))
				case float32:
					embedding = append(embedding, x)
				default:
					return nil, fmt.Errorf("node %d: unexpected embedding element type %T", node.ID, item)
				}
			}
			node.Embedding = embedding
		}
	}

	if node.ID == 0 {
		return nil, fmt.Errorf("malformed taxon record")
	}
	return node, nil
}
