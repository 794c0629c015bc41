package bptree

import (
	"github.com/abiiranathan/bptree/internal/arena"
)

// Entry is a key-payload pair yielded during iteration.
type Entry struct {
	Key     int64
	Payload any
}

// frame records one level of an iterator's descent: the node and the
// position within it. For leaves the position is the next entry to
// yield; for internal nodes it is the child currently being walked.
type frame struct {
	node arena.Index
	pos  int
}

// Iterator walks the tree's entries in non-decreasing key order.
// Leaves carry no sibling links, so the iterator keeps the descent path
// from the root on an explicit stack and re-descends as leaves are
// exhausted.
//
// The tree must not be modified while an iterator is in use; doing so
// leaves the iteration undefined. Iterators are cheap to create, so
// restarting means asking the tree for a new one.
type Iterator struct {
	tree    *Tree
	stack   []frame
	hi      int64
	bounded bool
	closed  bool
}

// All returns an iterator over every entry in key order.
func (t *Tree) All() *Iterator {
	it := &Iterator{tree: t}
	if t.root == arena.None {
		it.closed = true
		return it
	}
	it.descendFirst(t.root)
	return it
}

// Range returns an iterator over entries with lo <= key <= hi, in key
// order. The start position is found by descending toward the first
// key >= lo, routing left of equal separators so duplicates that ended
// up in a left subtree are not skipped.
func (t *Tree) Range(lo, hi int64) *Iterator {
	it := &Iterator{tree: t, hi: hi, bounded: true}
	if t.root == arena.None || lo > hi {
		it.closed = true
		return it
	}

	n := t.arena.Get(t.root)
	for !n.isLeaf() {
		pos := n.lowerBound(lo)
		it.stack = append(it.stack, frame{node: n.self, pos: pos})
		n = t.arena.Get(n.children[pos])
	}
	it.stack = append(it.stack, frame{node: n.self, pos: n.lowerBound(lo)})
	return it
}

// descendFirst pushes the path from idx down its leftmost spine onto
// the stack, ending at a leaf.
func (it *Iterator) descendFirst(idx arena.Index) {
	n := it.tree.arena.Get(idx)
	for {
		it.stack = append(it.stack, frame{node: n.self, pos: 0})
		if n.isLeaf() {
			return
		}
		n = it.tree.arena.Get(n.children[0])
	}
}

// Next returns the next entry in key order.
// Returns ok == false once the iteration is exhausted or closed.
func (it *Iterator) Next() (key int64, payload any, ok bool) {
	if it.closed {
		return 0, nil, false
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		n := it.tree.arena.Get(top.node)

		if n.isLeaf() {
			if top.pos < len(n.keys) {
				key = n.keys[top.pos]
				if it.bounded && key > it.hi {
					break
				}
				payload = n.payloads[top.pos]
				top.pos++
				return key, payload, true
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		// Move to the internal node's next child, or pop if none remain.
		top.pos++
		if top.pos < len(n.children) {
			it.descendFirst(n.children[top.pos])
		} else {
			it.stack = it.stack[:len(it.stack)-1]
		}
	}

	it.Close()
	return 0, nil, false
}

// Close marks the iterator exhausted. Next returns false afterwards.
// Closing an already closed iterator is a no-op.
func (it *Iterator) Close() {
	it.closed = true
	it.stack = nil
}

// Collect exhausts the iterator and returns the remaining entries.
func (it *Iterator) Collect() []Entry {
	var entries []Entry
	for {
		key, payload, ok := it.Next()
		if !ok {
			return entries
		}
		entries = append(entries, Entry{Key: key, Payload: payload})
	}
}
