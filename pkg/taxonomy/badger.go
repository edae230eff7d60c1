package taxonomy

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/soundprediction/classifico/pkg/types"
)

// BadgerStore persists the taxonomy tree and its usage counters in an
// embedded BadgerDB. Node records carry their embedding, so a search
// never needs a second lookup per child.
//
// Key layout (ids are zero-padded so iteration order equals id order):
//
//	n/<id>          -> JSON node record
//	c/<parent>/<id> -> empty (child index)
//	u/<id>          -> big-endian uint64 usage counter
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

var (
	_ Store         = (*BadgerStore)(nil)
	_ UsageRecorder = (*BadgerStore)(nil)
	_ Writer        = (*BadgerStore)(nil)
)

// badgerLoggerAdapter routes badger's internal logging through slog.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

func (l *badgerLoggerAdapter) Errorf(msg string, args ...any) {
	l.logger.Error(fmt.Sprintf(strings.TrimSpace(msg), args...))
}

func (l *badgerLoggerAdapter) Warningf(msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(strings.TrimSpace(msg), args...))
}

func (l *badgerLoggerAdapter) Infof(msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(strings.TrimSpace(msg), args...))
}

func (l *badgerLoggerAdapter) Debugf(msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(strings.TrimSpace(msg), args...))
}

// OpenBadgerStore opens (or creates) a store at the given directory.
// An empty path opens an in-memory database, which is handy for tests.
func OpenBadgerStore(path string, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLoggerAdapter{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger taxonomy store: %w", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// nodeRecord is the persisted form of a TaxonomyNode. The usage counter
// lives under its own key so writes never rewrite the embedding.
type nodeRecord struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	ParentID  int64     `json:"parent_id"`
	Embedding []float32 `json:"embedding,omitempty"`
}

func nodeKey(id int64) []byte {
	return []byte(fmt.Sprintf("n/%020d", id))
}

func childKey(parentID, id int64) []byte {
	return []byte(fmt.Sprintf("c/%020d/%020d", parentID, id))
}

func childPrefix(parentID int64) []byte {
	return []byte(fmt.Sprintf("c/%020d/", parentID))
}

func usageKey(id int64) []byte {
	return []byte(fmt.Sprintf("u/%020d", id))
}

// UpsertNode inserts or replaces a node and its child-index entry.
func (s *BadgerStore) UpsertNode(ctx context.Context, node *types.TaxonomyNode) error {
	if node == nil || node.ID == types.RootParentID {
		return fmt.Errorf("invalid taxonomy node")
	}

	record := nodeRecord{
		ID:        node.ID,
		Label:     node.Label,
		ParentID:  node.ParentID,
		Embedding: node.Embedding,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding node %d: %w", node.ID, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if !node.IsRoot() {
			if _, err := txn.Get(nodeKey(node.ParentID)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("parent %d of node %d: %w", node.ParentID, node.ID, ErrNodeNotFound)
				}
				return err
			}
		}
		if err := txn.Set(nodeKey(node.ID), payload); err != nil {
			return err
		}
		return txn.Set(childKey(node.ParentID, node.ID), nil)
	})
}

// Node returns the node with the given id.
func (s *BadgerStore) Node(ctx context.Context, id int64) (*types.TaxonomyNode, error) {
	var node *types.TaxonomyNode
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		node, err = s.readNode(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Children returns direct children in ascending ID order with usage
// snapshots populated.
func (s *BadgerStore) Children(ctx context.Context, parentID int64) ([]*types.TaxonomyNode, error) {
	var children []*types.TaxonomyNode
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = childPrefix(parentID)

		it := txn.NewIterator(opts)
		defer it.Close()

		prefixLen := len(opts.Prefix)
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			childID, err := strconv.ParseInt(string(key[prefixLen:]), 10, 64)
			if err != nil {
				return fmt.Errorf("malformed child key %q: %w", key, err)
			}
			child, err := s.readNode(txn, childID)
			if err != nil {
				return err
			}
			children = append(children, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// UsageCount returns the usage counter for a node.
func (s *BadgerStore) UsageCount(ctx context.Context, id int64) (uint64, error) {
	var count uint64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = readUsage(txn, id)
		return err
	})
	return count, err
}

// RecordUsage increments the usage counter of every given node in one
// transaction.
func (s *BadgerStore) RecordUsage(ctx context.Context, nodeIDs ...int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range nodeIDs {
			count, err := readUsage(txn, id)
			if err != nil {
				return err
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], count+1)
			if err := txn.Set(usageKey(id), buf[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) readNode(txn *badger.Txn, id int64) (*types.TaxonomyNode, error) {
	item, err := txn.Get(nodeKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
		}
		return nil, err
	}

	var record nodeRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return nil, fmt.Errorf("decoding node %d: %w", id, err)
	}

	usage, err := readUsage(txn, id)
	if err != nil {
		return nil, err
	}

	return &types.TaxonomyNode{
		ID:         record.ID,
		Label:      record.Label,
		ParentID:   record.ParentID,
		Embedding:  record.Embedding,
		UsageCount: usage,
	}, nil
}

func readUsage(txn *badger.Txn, id int64) (uint64, error) {
	item, err := txn.Get(usageKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("malformed usage counter for node %d", id)
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	return count, err
}
