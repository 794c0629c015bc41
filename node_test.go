package bptree

import (
	"testing"

	"github.com/abiiranathan/bptree/internal/arena"
)

func newLeafForTest(keys ...int64) *node {
	n := &node{kind: kindLeaf, self: 1}
	for i, k := range keys {
		n.keys = append(n.keys, k)
		n.payloads = append(n.payloads, i)
	}
	return n
}

func newInternalForTest(keys []int64, children []arena.Index) *node {
	return &node{kind: kindInternal, self: 1, keys: keys, children: children}
}

// =============================================================================
// Bound Search Tests
// =============================================================================

func TestUpperBound(t *testing.T) {
	n := newLeafForTest(10, 20, 20, 30)

	tests := []struct {
		key  int64
		want int
	}{
		{5, 0},
		{10, 1},
		{15, 1},
		{20, 3},
		{25, 3},
		{30, 4},
		{35, 4},
	}

	for _, tt := range tests {
		if got := n.upperBound(tt.key); got != tt.want {
			t.Errorf("upperBound(%d) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestLowerBound(t *testing.T) {
	n := newLeafForTest(10, 20, 20, 30)

	tests := []struct {
		key  int64
		want int
	}{
		{5, 0},
		{10, 0},
		{15, 1},
		{20, 1},
		{25, 3},
		{30, 3},
		{35, 4},
	}

	for _, tt := range tests {
		if got := n.lowerBound(tt.key); got != tt.want {
			t.Errorf("lowerBound(%d) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestBoundsOnEmptyNode(t *testing.T) {
	n := newLeafForTest()

	if got := n.upperBound(1); got != 0 {
		t.Errorf("upperBound on empty node = %d, want 0", got)
	}
	if got := n.lowerBound(1); got != 0 {
		t.Errorf("lowerBound on empty node = %d, want 0", got)
	}
}

// =============================================================================
// Leaf Mutation Tests
// =============================================================================

func TestInsertEntryAt(t *testing.T) {
	n := newLeafForTest(10, 30)

	n.insertEntryAt(1, 20, "mid")

	if len(n.keys) != 3 || n.keys[0] != 10 || n.keys[1] != 20 || n.keys[2] != 30 {
		t.Errorf("keys after insert = %v", n.keys)
	}
	if n.payloads[1] != "mid" {
		t.Errorf("payload at 1 = %v, want mid", n.payloads[1])
	}
	if len(n.payloads) != len(n.keys) {
		t.Errorf("payloads and keys out of step: %d vs %d", len(n.payloads), len(n.keys))
	}
}

func TestInsertEntryAtEnds(t *testing.T) {
	n := newLeafForTest(20)

	n.insertEntryAt(0, 10, "front")
	n.insertEntryAt(2, 30, "back")

	if n.keys[0] != 10 || n.keys[1] != 20 || n.keys[2] != 30 {
		t.Errorf("keys after end inserts = %v", n.keys)
	}
}

func TestRemoveEntryAt(t *testing.T) {
	n := newLeafForTest(10, 20, 30)

	key, payload := n.removeEntryAt(1)

	if key != 20 {
		t.Errorf("removed key = %d, want 20", key)
	}
	if payload != 1 {
		t.Errorf("removed payload = %v, want 1", payload)
	}
	if len(n.keys) != 2 || n.keys[0] != 10 || n.keys[1] != 30 {
		t.Errorf("keys after remove = %v", n.keys)
	}
	if len(n.payloads) != 2 {
		t.Errorf("payloads not shrunk: %d", len(n.payloads))
	}
}

// =============================================================================
// Internal Mutation Tests
// =============================================================================

func TestInsertChildAt(t *testing.T) {
	n := newInternalForTest([]int64{20}, []arena.Index{1, 2})

	n.insertChildAt(1, 30, 3)

	if len(n.keys) != 2 || n.keys[0] != 20 || n.keys[1] != 30 {
		t.Errorf("keys after insert = %v", n.keys)
	}
	if len(n.children) != 3 || n.children[2] != 3 {
		t.Errorf("children after insert = %v", n.children)
	}
}

func TestInsertChildAtFront(t *testing.T) {
	n := newInternalForTest([]int64{20}, []arena.Index{1, 2})

	n.insertChildAt(0, 10, 3)

	if n.keys[0] != 10 || n.keys[1] != 20 {
		t.Errorf("keys after front insert = %v", n.keys)
	}
	// The new child sits to the right of its key.
	if n.children[0] != 1 || n.children[1] != 3 || n.children[2] != 2 {
		t.Errorf("children after front insert = %v", n.children)
	}
}

func TestRemoveSeparatorAt(t *testing.T) {
	n := newInternalForTest([]int64{10, 20, 30}, []arena.Index{1, 2, 3, 4})

	n.removeSeparatorAt(1)

	if len(n.keys) != 2 || n.keys[0] != 10 || n.keys[1] != 30 {
		t.Errorf("keys after remove = %v", n.keys)
	}
	if len(n.children) != 3 || n.children[0] != 1 || n.children[1] != 2 || n.children[2] != 4 {
		t.Errorf("children after remove = %v", n.children)
	}
}

func TestChildIndex(t *testing.T) {
	n := newInternalForTest([]int64{10, 20}, []arena.Index{7, 8, 9})

	if got := n.childIndex(8); got != 1 {
		t.Errorf("childIndex(8) = %d, want 1", got)
	}
	if got := n.childIndex(42); got != -1 {
		t.Errorf("childIndex(42) = %d, want -1", got)
	}
}

// =============================================================================
// Kind Misuse Tests
// =============================================================================

func TestKindMisusePanics(t *testing.T) {
	leaf := newLeafForTest(10)
	internal := newInternalForTest([]int64{10}, []arena.Index{1, 2})

	expectPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic, got none", name)
			}
		}()
		fn()
	}

	expectPanic("entry insert on internal", func() { internal.insertEntryAt(0, 1, nil) })
	expectPanic("entry remove on internal", func() { internal.removeEntryAt(0) })
	expectPanic("child insert on leaf", func() { leaf.insertChildAt(0, 1, 2) })
	expectPanic("separator remove on leaf", func() { leaf.removeSeparatorAt(0) })
	expectPanic("child lookup on leaf", func() { leaf.childIndex(1) })
}
