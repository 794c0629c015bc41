package bptree

import (
	"fmt"

	"github.com/abiiranathan/bptree/internal/arena"
)

// checkFrame carries the expectations for one node during a Check walk:
// who its parent must be, how deep it sits, and the key bounds
// inherited from the separators above it.
type checkFrame struct {
	node   arena.Index
	parent arena.Index
	depth  int
	lo, hi int64
	hasLo  bool
	hasHi  bool
}

// Check walks the whole tree and verifies its structural invariants:
// uniform leaf depth, child and payload counts, key ordering and
// separator bounds, occupancy minimums for non-root nodes, parent
// links, the entry count, and the arena's live-node accounting.
//
// It returns nil on a sound tree and a descriptive error on the first
// violation found. Check exists for tests and diagnostics; the tree
// never calls it on its own.
func (t *Tree) Check() error {
	if t.root == arena.None {
		if t.size != 0 {
			return fmt.Errorf("empty tree reports %d entries", t.size)
		}
		if live := t.arena.Live(); live != 0 {
			return fmt.Errorf("empty tree holds %d live nodes", live)
		}
		return nil
	}

	leafDepth := -1
	nodes := 0
	entries := 0

	stack := []checkFrame{{node: t.root, parent: arena.None, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.arena.Get(f.node)
		nodes++

		if n.kind != kindLeaf && n.kind != kindInternal {
			return fmt.Errorf("node %d: unknown kind %d", f.node, n.kind)
		}
		if n.self != f.node {
			return fmt.Errorf("node %d: self index says %d", f.node, n.self)
		}
		if n.parent != f.parent {
			return fmt.Errorf("node %d: parent is %d, want %d", f.node, n.parent, f.parent)
		}

		if len(n.keys) > t.order {
			return fmt.Errorf("node %d: %d keys exceed order %d", f.node, len(n.keys), t.order)
		}
		if f.node != t.root {
			if min := t.minKeys(n); len(n.keys) < min {
				return fmt.Errorf("node %d: %d keys below minimum %d", f.node, len(n.keys), min)
			}
		} else if !n.isLeaf() && len(n.keys) == 0 {
			return fmt.Errorf("node %d: internal root has no keys", f.node)
		}

		for i := 1; i < len(n.keys); i++ {
			if n.keys[i-1] > n.keys[i] {
				return fmt.Errorf("node %d: keys out of order at %d", f.node, i)
			}
		}
		for _, k := range n.keys {
			if f.hasLo && k < f.lo {
				return fmt.Errorf("node %d: key %d below separator bound %d", f.node, k, f.lo)
			}
			if f.hasHi && k > f.hi {
				return fmt.Errorf("node %d: key %d above separator bound %d", f.node, k, f.hi)
			}
		}

		if n.isLeaf() {
			if len(n.payloads) != len(n.keys) {
				return fmt.Errorf("node %d: %d payloads for %d keys", f.node, len(n.payloads), len(n.keys))
			}
			if n.children != nil {
				return fmt.Errorf("node %d: leaf carries a child array", f.node)
			}
			if leafDepth == -1 {
				leafDepth = f.depth
			} else if f.depth != leafDepth {
				return fmt.Errorf("node %d: leaf at depth %d, want %d", f.node, f.depth, leafDepth)
			}
			entries += len(n.keys)
			continue
		}

		if n.payloads != nil {
			return fmt.Errorf("node %d: internal node carries a payload array", f.node)
		}
		if len(n.children) != len(n.keys)+1 {
			return fmt.Errorf("node %d: %d children for %d keys", f.node, len(n.children), len(n.keys))
		}

		for i, c := range n.children {
			if c == arena.None {
				return fmt.Errorf("node %d: child %d unset", f.node, i)
			}

			// Child i sits between separators i-1 and i, both inclusive
			// since duplicates may straddle a separator.
			child := checkFrame{
				node:   c,
				parent: f.node,
				depth:  f.depth + 1,
				lo:     f.lo,
				hi:     f.hi,
				hasLo:  f.hasLo,
				hasHi:  f.hasHi,
			}
			if i > 0 {
				child.lo, child.hasLo = n.keys[i-1], true
			}
			if i < len(n.keys) {
				child.hi, child.hasHi = n.keys[i], true
			}
			stack = append(stack, child)
		}
	}

	if entries != t.size {
		return fmt.Errorf("walk found %d entries, tree reports %d", entries, t.size)
	}
	if live := t.arena.Live(); nodes != live {
		return fmt.Errorf("walk found %d nodes, arena reports %d live", nodes, live)
	}

	return nil
}
