package bptree

import (
	"io"
	"sync"
)

// SyncTree wraps a Tree behind a single read-write mutex. Writers get
// exclusive access; any number of readers may run concurrently while no
// writer is active. Operations never block on anything but the lock.
//
// Iteration on a SyncTree returns a snapshot slice collected under the
// read lock, since handing out a live iterator would let the caller
// walk the tree unlocked.
type SyncTree struct {
	mu   sync.RWMutex
	tree *Tree
}

// NewSyncTree creates a SyncTree with the given order and otherwise
// default options.
func NewSyncTree(order int) (*SyncTree, error) {
	tree, err := New(order)
	if err != nil {
		return nil, err
	}
	return &SyncTree{tree: tree}, nil
}

// NewSyncTreeWithOptions creates a SyncTree from the given options.
func NewSyncTreeWithOptions(opts Options) (*SyncTree, error) {
	tree, err := NewWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return &SyncTree{tree: tree}, nil
}

// Insert adds a key-payload pair under the write lock.
func (s *SyncTree) Insert(key int64, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Insert(key, payload)
}

// Delete removes the first entry matching the key under the write lock.
func (s *SyncTree) Delete(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Delete(key)
}

// Clear removes all entries under the write lock.
func (s *SyncTree) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Clear()
}

// Search returns the payload stored under the key.
func (s *SyncTree) Search(key int64) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Search(key)
}

// Contains reports whether the key is present.
func (s *SyncTree) Contains(key int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Contains(key)
}

// Len returns the number of entries.
func (s *SyncTree) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// IsEmpty returns true if the tree has no entries.
func (s *SyncTree) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.IsEmpty()
}

// Order returns the maximum number of keys per node.
func (s *SyncTree) Order() int {
	return s.tree.Order()
}

// First returns the smallest key and its payload.
func (s *SyncTree) First() (int64, any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.First()
}

// Last returns the largest key and its payload.
func (s *SyncTree) Last() (int64, any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Last()
}

// All returns a snapshot of every entry in key order.
func (s *SyncTree) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.All().Collect()
}

// Range returns a snapshot of the entries with lo <= key <= hi.
func (s *SyncTree) Range(lo, hi int64) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Range(lo, hi).Collect()
}

// Stats returns statistics about the tree.
func (s *SyncTree) Stats() TreeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Stats()
}

// Check verifies the tree's structural invariants.
func (s *SyncTree) Check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Check()
}

// Dump writes a level-by-level rendering of the tree to w.
func (s *SyncTree) Dump(w io.Writer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.tree.Dump(w)
}
