package arena

import (
	"errors"
)

// Index identifies a slot in an Arena. Indices remain valid until the
// slot is freed, regardless of how many allocations happen in between.
type Index uint32

// None is the zero Index. It never refers to a live slot; slot 0 is
// reserved so that the zero value of link fields means "no node".
const None Index = 0

// ErrExhausted is returned by Alloc when the arena has reached its
// configured slot limit.
var ErrExhausted = errors.New("arena: slot limit reached")

// Arena hands out slots of T addressed by stable indices. Freed slots are
// recycled LIFO, reusing both the index and the backing allocation.
//
// An Arena is not safe for concurrent use; the owner is expected to
// serialize access.
type Arena[T any] struct {
	slots []*T
	free  []Index
	spare []*T
	live  int
	limit int
}

// New creates an Arena. A limit of 0 means unbounded; otherwise Alloc
// fails once limit slots are live at the same time.
func New[T any](limit int) *Arena[T] {
	if limit < 0 {
		limit = 0
	}
	return &Arena[T]{
		slots: make([]*T, 1), // slot 0 reserved for None
		limit: limit,
	}
}

// Alloc returns a fresh zero-valued slot and its index.
// It fails with ErrExhausted when the live-slot limit is reached.
func (a *Arena[T]) Alloc() (Index, *T, error) {
	if a.limit > 0 && a.live >= a.limit {
		return None, nil, ErrExhausted
	}

	var (
		idx Index
		n   *T
	)
	if k := len(a.free) - 1; k >= 0 {
		// Reuse the most recently freed slot (LIFO for locality).
		idx = a.free[k]
		a.free = a.free[:k]
		n = a.spare[k]
		a.spare[k] = nil
		a.spare = a.spare[:k]
		a.slots[idx] = n
	} else {
		n = new(T)
		idx = Index(len(a.slots))
		a.slots = append(a.slots, n)
	}

	a.live++
	return idx, n, nil
}

// Get returns the slot for idx.
// It panics if idx is None, out of range, or already freed: holding a
// stale index is a programming error, not a runtime condition.
func (a *Arena[T]) Get(idx Index) *T {
	if idx == None || int(idx) >= len(a.slots) {
		panic("arena: get with invalid index")
	}
	n := a.slots[idx]
	if n == nil {
		panic("arena: get after free")
	}
	return n
}

// Free releases the slot for idx and recycles it for later allocation.
// The slot value is zeroed so references held in it can be collected.
// Panics on invalid indices and double frees.
func (a *Arena[T]) Free(idx Index) {
	if idx == None || int(idx) >= len(a.slots) {
		panic("arena: free with invalid index")
	}
	n := a.slots[idx]
	if n == nil {
		panic("arena: double free")
	}

	var zero T
	*n = zero
	a.slots[idx] = nil
	a.free = append(a.free, idx)
	a.spare = append(a.spare, n)
	a.live--
}

// Live returns the number of currently allocated slots.
func (a *Arena[T]) Live() int {
	return a.live
}

// Limit returns the configured slot limit (0 = unbounded).
func (a *Arena[T]) Limit() int {
	return a.limit
}
