package bptree

import (
	"go.uber.org/zap"

	"github.com/abiiranathan/bptree/internal/arena"
)

// Delete removes the first entry matching the key from the leaf its
// descent lands on. It reports whether an entry was removed; deleting
// an absent key is a no-op.
//
// Underflowing nodes borrow from a sibling when one can spare an entry
// and merge with one otherwise, climbing toward the root. An internal
// root left without keys collapses into its only child.
func (t *Tree) Delete(key int64) bool {
	if t.root == arena.None {
		return false
	}

	leaf := t.findLeaf(key)
	idx := leaf.lowerBound(key)
	if idx == len(leaf.keys) || leaf.keys[idx] != key {
		return false
	}

	leaf.removeEntryAt(idx)
	t.size--

	t.rebalance(leaf)
	return true
}

// rebalance restores occupancy minimums starting at n and climbing the
// parent chain. Borrows stop the climb; merges shrink the parent and
// continue. The root is exempt from minimums: a root leaf may hold any
// number of entries, and a keyless internal root collapses.
func (t *Tree) rebalance(n *node) {
	for {
		if n.self == t.root {
			t.collapseRoot(n)
			return
		}
		if len(n.keys) >= t.minKeys(n) {
			return
		}

		parent := t.arena.Get(n.parent)
		pos := parent.childIndex(n.self)

		// Try to borrow from a sibling with more than the minimum.
		if pos > 0 {
			left := t.arena.Get(parent.children[pos-1])
			if len(left.keys) > t.minKeys(n) {
				if n.isLeaf() {
					t.borrowFromLeftLeaf(parent, pos, left, n)
				} else {
					t.borrowFromLeftInternal(parent, pos, left, n)
				}
				return
			}
		}
		if pos < len(parent.children)-1 {
			right := t.arena.Get(parent.children[pos+1])
			if len(right.keys) > t.minKeys(n) {
				if n.isLeaf() {
					t.borrowFromRightLeaf(parent, pos, right, n)
				} else {
					t.borrowFromRightInternal(parent, pos, right, n)
				}
				return
			}
		}

		// No sibling can lend, so merge. Prefer the left sibling; the
		// leftmost child merges with its right sibling instead.
		sepIdx := pos - 1
		if pos == 0 {
			sepIdx = 0
		}
		if n.isLeaf() {
			t.mergeLeaves(parent, sepIdx)
		} else {
			t.mergeInternals(parent, sepIdx)
		}

		n = parent
	}
}

// collapseRoot shrinks the tree when the root is an internal node with
// no keys left: its only child becomes the new root.
func (t *Tree) collapseRoot(root *node) {
	if root.isLeaf() || len(root.keys) > 0 {
		return
	}

	child := root.children[0]
	t.arena.Get(child).parent = arena.None
	t.root = child
	t.arena.Free(root.self)

	t.logger.Debug("root collapsed", zap.Uint32("root", uint32(child)))
}

// borrowFromLeftLeaf moves the left sibling's last entry to the front
// of the underflowing leaf and updates the separator between them.
func (t *Tree) borrowFromLeftLeaf(parent *node, pos int, left, leaf *node) {
	key, payload := left.removeEntryAt(len(left.keys) - 1)
	leaf.insertEntryAt(0, key, payload)

	parent.keys[pos-1] = leaf.keys[0]

	t.logger.Debug("leaf borrowed from left sibling",
		zap.Uint32("node", uint32(leaf.self)),
		zap.Int64("key", key))
}

// borrowFromRightLeaf moves the right sibling's first entry to the end
// of the underflowing leaf and updates the separator between them.
func (t *Tree) borrowFromRightLeaf(parent *node, pos int, right, leaf *node) {
	key, payload := right.removeEntryAt(0)
	leaf.insertEntryAt(len(leaf.keys), key, payload)

	parent.keys[pos] = right.keys[0]

	t.logger.Debug("leaf borrowed from right sibling",
		zap.Uint32("node", uint32(leaf.self)),
		zap.Int64("key", key))
}

// borrowFromLeftInternal rotates through the parent: the separator
// comes down as the node's new first key, the left sibling's last child
// moves over, and the left sibling's last key goes up to the parent.
func (t *Tree) borrowFromLeftInternal(parent *node, pos int, left, n *node) {
	sep := parent.keys[pos-1]

	lastKey := left.keys[len(left.keys)-1]
	lastChild := left.children[len(left.children)-1]
	left.keys = left.keys[:len(left.keys)-1]
	left.children = left.children[:len(left.children)-1]

	n.keys = append([]int64{sep}, n.keys...)
	n.children = append([]arena.Index{lastChild}, n.children...)
	t.arena.Get(lastChild).parent = n.self

	parent.keys[pos-1] = lastKey

	t.logger.Debug("internal borrowed from left sibling",
		zap.Uint32("node", uint32(n.self)))
}

// borrowFromRightInternal rotates through the parent: the separator
// comes down as the node's new last key, the right sibling's first
// child moves over, and the right sibling's first key goes up.
func (t *Tree) borrowFromRightInternal(parent *node, pos int, right, n *node) {
	sep := parent.keys[pos]

	firstChild := right.children[0]
	parent.keys[pos] = right.keys[0]
	right.keys = right.keys[1:]
	right.children = right.children[1:]

	n.keys = append(n.keys, sep)
	n.children = append(n.children, firstChild)
	t.arena.Get(firstChild).parent = n.self

	t.logger.Debug("internal borrowed from right sibling",
		zap.Uint32("node", uint32(n.self)))
}

// mergeLeaves folds the right leaf at the given separator into the left
// one, frees the right leaf, and removes the separator from the parent.
func (t *Tree) mergeLeaves(parent *node, sepIdx int) {
	left := t.arena.Get(parent.children[sepIdx])
	right := t.arena.Get(parent.children[sepIdx+1])

	left.keys = append(left.keys, right.keys...)
	left.payloads = append(left.payloads, right.payloads...)

	freed := right.self
	t.arena.Free(freed)
	parent.removeSeparatorAt(sepIdx)

	t.logger.Debug("leaves merged",
		zap.Uint32("into", uint32(left.self)),
		zap.Uint32("freed", uint32(freed)))
}

// mergeInternals folds the right internal node at the given separator
// into the left one. The separator comes down between the two key runs,
// the right node's children are re-parented, the right node is freed,
// and the separator is removed from the parent.
func (t *Tree) mergeInternals(parent *node, sepIdx int) {
	left := t.arena.Get(parent.children[sepIdx])
	right := t.arena.Get(parent.children[sepIdx+1])

	left.keys = append(left.keys, parent.keys[sepIdx])
	left.keys = append(left.keys, right.keys...)

	for _, c := range right.children {
		t.arena.Get(c).parent = left.self
	}
	left.children = append(left.children, right.children...)

	freed := right.self
	t.arena.Free(freed)
	parent.removeSeparatorAt(sepIdx)

	t.logger.Debug("internal nodes merged",
		zap.Uint32("into", uint32(left.self)),
		zap.Uint32("freed", uint32(freed)))
}
