package bptree

import (
	"errors"

	"go.uber.org/zap"

	"github.com/abiiranathan/bptree/internal/arena"
)

// Tree errors.
var (
	ErrInvalidOrder   = errors.New("order must be at least 2")
	ErrNodesExhausted = errors.New("node limit reached")
)

// Tree is an in-memory B+ tree mapping int64 keys to opaque payloads.
// Payloads are never inspected or copied; the tree only stores the
// references it is given. Duplicate keys are allowed.
//
// A Tree is not safe for concurrent use. Callers either serialize
// access themselves or use SyncTree.
type Tree struct {
	arena       *arena.Arena[node]
	root        arena.Index
	order       int
	minLeaf     int
	minInternal int
	size        int
	logger      *zap.Logger
}

// New creates a Tree with the given order and otherwise default options.
// The order is the maximum number of keys per node; 0 selects
// DefaultOrder.
func New(order int) (*Tree, error) {
	return NewWithOptions(DefaultOptions().WithOrder(order))
}

// NewWithOptions creates a Tree from the given options.
func NewWithOptions(opts Options) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tree{
		arena:       arena.New[node](opts.MaxNodes),
		root:        arena.None,
		order:       opts.Order,
		minLeaf:     (opts.Order + 1) / 2,
		minInternal: opts.Order / 2,
		size:        0,
		logger:      logger,
	}, nil
}

// Order returns the maximum number of keys per node.
func (t *Tree) Order() int {
	return t.order
}

// Len returns the number of entries in the tree.
func (t *Tree) Len() int {
	return t.size
}

// IsEmpty returns true if the tree has no entries.
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

// initNode prepares a freshly allocated arena slot as a node of the
// given kind.
func (t *Tree) initNode(idx arena.Index, k kind) *node {
	n := t.arena.Get(idx)
	n.kind = k
	n.self = idx
	n.parent = arena.None
	n.keys = make([]int64, 0, t.order+1)
	if k == kindLeaf {
		n.payloads = make([]any, 0, t.order+1)
	} else {
		n.children = make([]arena.Index, 0, t.order+2)
	}
	return n
}

// findLeaf descends from the root to the leaf whose key range covers
// the given key. At each internal node the child index is the number of
// keys <= key, so equal keys route into the rightmost covering subtree.
// The tree must not be empty.
func (t *Tree) findLeaf(key int64) *node {
	n := t.arena.Get(t.root)
	for !n.isLeaf() {
		n = t.arena.Get(n.children[n.upperBound(key)])
	}
	return n
}

// minKeys returns the occupancy minimum for a non-root node of n's kind.
func (t *Tree) minKeys(n *node) int {
	if n.isLeaf() {
		return t.minLeaf
	}
	return t.minInternal
}

// Clear removes all entries and returns every node to the arena.
// Payload references are dropped so the caller's values can be
// collected; the payloads themselves are never touched. The tree
// remains usable afterwards.
func (t *Tree) Clear() {
	if t.root == arena.None {
		return
	}

	freed := 0
	stack := []arena.Index{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.arena.Get(idx)
		if !n.isLeaf() {
			stack = append(stack, n.children...)
		}
		t.arena.Free(idx)
		freed++
	}

	t.root = arena.None
	t.size = 0
	t.logger.Debug("tree cleared", zap.Int("nodes_freed", freed))
}

// TreeStats holds statistics about the tree.
type TreeStats struct {
	Height        int
	InternalNodes int
	LeafNodes     int
	Entries       int
}

// Stats returns statistics about the tree, computed by a full walk.
func (t *Tree) Stats() TreeStats {
	stats := TreeStats{}
	if t.root == arena.None {
		return stats
	}

	// Height is the number of levels down the leftmost spine.
	n := t.arena.Get(t.root)
	stats.Height = 1
	for !n.isLeaf() {
		stats.Height++
		n = t.arena.Get(n.children[0])
	}

	stack := []arena.Index{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.arena.Get(idx)
		if n.isLeaf() {
			stats.LeafNodes++
			stats.Entries += len(n.keys)
		} else {
			stats.InternalNodes++
			stack = append(stack, n.children...)
		}
	}

	return stats
}
