// Package bptree implements an in-memory B+ tree index mapping int64
// keys to opaque payload references.
//
// The tree is parameterized by its order, the maximum number of keys a
// node may hold. All payloads live in leaves; internal nodes hold only
// routing keys. Duplicate keys are allowed, with new entries landing
// after the ones already present. Nodes are stored in an arena and
// linked by stable indices rather than pointers, and the arena can be
// capped so inserts fail cleanly with ErrNodesExhausted instead of
// growing without bound.
//
// Lookups, inserts, and deletes are logarithmic. Deletion rebalances by
// borrowing from or merging with siblings, shrinking the tree's height
// when the root empties. Leaves carry no sibling links; ordered
// iteration re-walks from the root with an explicit descent stack.
//
// A Tree is not safe for concurrent use. SyncTree provides the same
// operations behind a single read-write mutex for callers that want
// coarse-grained sharing.
//
//	tree, err := bptree.New(64)
//	if err != nil {
//		...
//	}
//	tree.Insert(42, record)
//	if payload, ok := tree.Search(42); ok {
//		...
//	}
//	it := tree.Range(10, 99)
//	for key, payload, ok := it.Next(); ok; key, payload, ok = it.Next() {
//		...
//	}
package bptree
