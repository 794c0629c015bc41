package bptree

import (
	"github.com/abiiranathan/bptree/internal/arena"
)

// Tree constants.
const (
	// DefaultOrder is the maximum number of keys per node when no
	// order is configured.
	DefaultOrder = 64

	// MinOrder is the smallest supported order. Below this, splits
	// cannot produce two nodes that satisfy the occupancy minimums.
	MinOrder = 2
)

// kind tags a node as leaf or internal.
type kind uint8

const (
	kindLeaf kind = iota + 1
	kindInternal
)

// node is a single B+ tree node stored in the arena.
// Leaf nodes carry payloads parallel to keys; internal nodes carry
// child indices, with children[i] holding keys <= keys[i] and
// children[i+1] holding keys >= keys[i]. The unused array is never
// allocated.
type node struct {
	kind     kind
	self     arena.Index
	parent   arena.Index
	keys     []int64
	payloads []any         // leaf only, parallel to keys
	children []arena.Index // internal only, len(keys)+1 entries
}

func (n *node) isLeaf() bool {
	return n.kind == kindLeaf
}

// upperBound returns the number of keys that are <= key.
// Used as the child index during descent, so equal keys route right.
func (n *node) upperBound(key int64) int {
	low, high := 0, len(n.keys)
	for low < high {
		mid := (low + high) / 2
		if n.keys[mid] <= key {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// lowerBound returns the index of the first key that is >= key,
// or len(keys) if no such key exists.
func (n *node) lowerBound(key int64) int {
	low, high := 0, len(n.keys)
	for low < high {
		mid := (low + high) / 2
		if n.keys[mid] < key {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// insertEntryAt inserts a key-payload pair at the given index.
// Only valid for leaf nodes.
func (n *node) insertEntryAt(index int, key int64, payload any) {
	if n.kind != kindLeaf {
		panic("bptree: entry insert on internal node")
	}

	n.keys = append(n.keys, 0)
	copy(n.keys[index+1:], n.keys[index:])
	n.keys[index] = key

	n.payloads = append(n.payloads, nil)
	copy(n.payloads[index+1:], n.payloads[index:])
	n.payloads[index] = payload
}

// removeEntryAt removes the key-payload pair at the given index and
// returns the removed payload. Only valid for leaf nodes.
func (n *node) removeEntryAt(index int) (int64, any) {
	if n.kind != kindLeaf {
		panic("bptree: entry remove on internal node")
	}

	key := n.keys[index]
	payload := n.payloads[index]

	n.keys = append(n.keys[:index], n.keys[index+1:]...)

	copy(n.payloads[index:], n.payloads[index+1:])
	n.payloads[len(n.payloads)-1] = nil // drop the trailing reference
	n.payloads = n.payloads[:len(n.payloads)-1]

	return key, payload
}

// insertChildAt inserts a separator key at index and the child to its
// right at index+1. Only valid for internal nodes.
func (n *node) insertChildAt(index int, key int64, child arena.Index) {
	if n.kind != kindInternal {
		panic("bptree: child insert on leaf node")
	}

	n.keys = append(n.keys, 0)
	copy(n.keys[index+1:], n.keys[index:])
	n.keys[index] = key

	n.children = append(n.children, arena.None)
	copy(n.children[index+2:], n.children[index+1:])
	n.children[index+1] = child
}

// removeSeparatorAt removes the separator key at index and the child to
// its right. Only valid for internal nodes.
func (n *node) removeSeparatorAt(index int) {
	if n.kind != kindInternal {
		panic("bptree: separator remove on leaf node")
	}

	n.keys = append(n.keys[:index], n.keys[index+1:]...)
	n.children = append(n.children[:index+1], n.children[index+2:]...)
}

// childIndex returns the position of child in the node's child array,
// or -1 if it is not present. Only valid for internal nodes.
func (n *node) childIndex(child arena.Index) int {
	if n.kind != kindInternal {
		panic("bptree: child lookup on leaf node")
	}

	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
