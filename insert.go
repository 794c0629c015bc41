package bptree

import (
	"go.uber.org/zap"

	"github.com/abiiranathan/bptree/internal/arena"
)

// Insert adds a key-payload pair to the tree. Duplicate keys are
// allowed; a new entry for an existing key lands after the entries
// already present.
//
// Every node the operation could need is reserved before anything is
// modified, so a failed insert leaves the tree exactly as it was.
// The only possible error is ErrNodesExhausted.
func (t *Tree) Insert(key int64, payload any) error {
	if t.root == arena.None {
		reserved, err := t.reserve(1)
		if err != nil {
			return err
		}

		root := t.initNode(reserved[0], kindLeaf)
		root.insertEntryAt(0, key, payload)
		t.root = root.self
		t.size++
		t.logger.Debug("root leaf created", zap.Uint32("node", uint32(root.self)))
		return nil
	}

	leaf := t.findLeaf(key)

	// Count the nodes a split cascade would allocate: one right sibling
	// per full node on the path up, plus a new root if the cascade
	// reaches a full root.
	need := 0
	n := leaf
	for len(n.keys) == t.order {
		need++
		if n.parent == arena.None {
			need++
			break
		}
		n = t.arena.Get(n.parent)
	}

	reserved, err := t.reserve(need)
	if err != nil {
		return err
	}

	leaf.insertEntryAt(leaf.upperBound(key), key, payload)
	t.size++

	if len(leaf.keys) > t.order {
		t.splitAndPropagate(leaf, reserved)
	}
	return nil
}

// reserve allocates count nodes from the arena up front. On failure the
// partial reservation is rolled back and ErrNodesExhausted is returned.
func (t *Tree) reserve(count int) ([]arena.Index, error) {
	if count == 0 {
		return nil, nil
	}

	reserved := make([]arena.Index, 0, count)
	for i := 0; i < count; i++ {
		idx, _, err := t.arena.Alloc()
		if err != nil {
			for _, r := range reserved {
				t.arena.Free(r)
			}
			return nil, ErrNodesExhausted
		}
		reserved = append(reserved, idx)
	}
	return reserved, nil
}

// splitAndPropagate splits the overflowing node and climbs the parent
// chain, splitting each parent that overflows in turn. The reserved
// slice holds exactly the nodes the cascade consumes.
func (t *Tree) splitAndPropagate(n *node, reserved []arena.Index) {
	for len(n.keys) > t.order {
		var (
			right *node
			sep   int64
		)
		if n.isLeaf() {
			right, sep = t.splitLeaf(n, reserved[0])
		} else {
			right, sep = t.splitInternal(n, reserved[0])
		}
		reserved = reserved[1:]

		if n.parent == arena.None {
			t.createRoot(reserved[0], n, sep, right)
			return
		}

		parent := t.arena.Get(n.parent)
		pos := parent.childIndex(n.self)
		parent.insertChildAt(pos, sep, right.self)
		right.parent = parent.self

		n = parent
	}
}

// splitLeaf moves the upper half of an overflowing leaf into a new
// right sibling and returns the sibling and the separator key. The
// separator is the sibling's first key; the larger half stays left.
func (t *Tree) splitLeaf(leaf *node, rightIdx arena.Index) (*node, int64) {
	right := t.initNode(rightIdx, kindLeaf)

	splitPoint := (len(leaf.keys) + 1) / 2

	right.keys = append(right.keys, leaf.keys[splitPoint:]...)
	right.payloads = append(right.payloads, leaf.payloads[splitPoint:]...)

	leaf.keys = leaf.keys[:splitPoint]
	for i := splitPoint; i < len(leaf.payloads); i++ {
		leaf.payloads[i] = nil // drop moved references
	}
	leaf.payloads = leaf.payloads[:splitPoint]

	right.parent = leaf.parent
	sep := right.keys[0]

	t.logger.Debug("leaf split",
		zap.Uint32("left", uint32(leaf.self)),
		zap.Uint32("right", uint32(right.self)),
		zap.Int64("separator", sep))

	return right, sep
}

// splitInternal splits an overflowing internal node around its middle
// key. The middle key is lifted out as the separator and kept in
// neither half; the children right of it move to the new sibling.
func (t *Tree) splitInternal(n *node, rightIdx arena.Index) (*node, int64) {
	right := t.initNode(rightIdx, kindInternal)

	mid := len(n.keys) / 2
	sep := n.keys[mid]

	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	right.parent = n.parent
	for _, c := range right.children {
		t.arena.Get(c).parent = right.self
	}

	t.logger.Debug("internal split",
		zap.Uint32("left", uint32(n.self)),
		zap.Uint32("right", uint32(right.self)),
		zap.Int64("separator", sep))

	return right, sep
}

// createRoot installs a new internal root over a freshly split pair,
// growing the tree by one level.
func (t *Tree) createRoot(idx arena.Index, left *node, sep int64, right *node) {
	root := t.initNode(idx, kindInternal)
	root.keys = append(root.keys, sep)
	root.children = append(root.children, left.self, right.self)

	left.parent = root.self
	right.parent = root.self
	t.root = root.self

	t.logger.Debug("root split",
		zap.Uint32("root", uint32(root.self)),
		zap.Int64("separator", sep))
}
