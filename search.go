package bptree

import (
	"github.com/abiiranathan/bptree/internal/arena"
)

// Search returns the payload stored under the key. If the key occurs
// more than once, the first matching entry in the leaf the descent
// lands on is returned. The second result is false if the key is
// absent; an absent key is never an error.
func (t *Tree) Search(key int64) (any, bool) {
	if t.root == arena.None {
		return nil, false
	}

	leaf := t.findLeaf(key)
	idx := leaf.lowerBound(key)
	if idx == len(leaf.keys) || leaf.keys[idx] != key {
		return nil, false
	}
	return leaf.payloads[idx], true
}

// Contains reports whether the key is present in the tree.
func (t *Tree) Contains(key int64) bool {
	_, ok := t.Search(key)
	return ok
}

// First returns the smallest key and its payload.
// Returns ok == false if the tree is empty.
func (t *Tree) First() (int64, any, bool) {
	if t.root == arena.None {
		return 0, nil, false
	}

	n := t.arena.Get(t.root)
	for !n.isLeaf() {
		n = t.arena.Get(n.children[0])
	}
	if len(n.keys) == 0 {
		return 0, nil, false
	}
	return n.keys[0], n.payloads[0], true
}

// Last returns the largest key and its payload.
// Returns ok == false if the tree is empty.
func (t *Tree) Last() (int64, any, bool) {
	if t.root == arena.None {
		return 0, nil, false
	}

	n := t.arena.Get(t.root)
	for !n.isLeaf() {
		n = t.arena.Get(n.children[len(n.children)-1])
	}
	if len(n.keys) == 0 {
		return 0, nil, false
	}
	last := len(n.keys) - 1
	return n.keys[last], n.payloads[last], true
}
