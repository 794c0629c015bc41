// Package arena provides a stable-index slot allocator for node storage.
//
// Slots are addressed by Index values that stay valid across later
// allocations and frees of other slots, so data structures can hold
// links as plain integers instead of pointers. Freed slots are recycled
// LIFO, reusing both the index and the backing allocation. Index 0 is
// reserved as None, letting the zero value of a link field mean
// "no node".
package arena
