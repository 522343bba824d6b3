// Package blockalloc allocates blocks of contiguous indices from a fixed
// capacity, tracking free space with a freeranges.FreeRanges.
package blockalloc

import (
	"fmt"

	"github.com/garethgeorge/freeranges"
)

// Allocator hands out ranges of free indices from [0, TotalCapacity).
// It is not thread-safe.
type Allocator struct {
	TotalCapacity     uint64
	AvailableCapacity uint64

	free *freeranges.FreeRanges
}

func New(capacity uint64) *Allocator {
	free := freeranges.New()
	if capacity > 0 {
		free = freeranges.NewWithRange(freeranges.Range{Min: 0, Max: capacity - 1})
	}
	return &Allocator{
		TotalCapacity:     capacity,
		AvailableCapacity: capacity,
		free:              free,
	}
}

// FreeRanges exposes the underlying free list for inspection.
func (a *Allocator) FreeRanges() *freeranges.FreeRanges {
	return a.free
}

// Allocate finds the first free range of at least size indices, marks its
// prefix as allocated, and returns it. Returns an ErrNoCapacity if no single
// free range is large enough.
func (a *Allocator) Allocate(size uint64) (freeranges.Range, error) {
	if size == 0 {
		return freeranges.EmptyRange, nil
	}

	var allocated freeranges.Range
	var found bool
	for r := range a.free.Ranges() {
		if r.Size() >= size {
			allocated = freeranges.Range{Min: r.Min, Max: r.Min + size - 1}
			found = true
			break
		}
	}
	if !found {
		return freeranges.EmptyRange, ErrNoCapacity
	}

	if !a.free.SetRangeUsed(allocated) {
		panic("internal allocator error: free range disappeared during allocation")
	}
	a.AvailableCapacity -= size
	return allocated, nil
}

// AllocateFirst marks the lowest free index as allocated and returns it.
func (a *Allocator) AllocateFirst() (uint64, error) {
	index, ok := a.free.SetFirstUsed()
	if !ok {
		return 0, ErrNoCapacity
	}
	a.AvailableCapacity--
	return index, nil
}

// MarkAllocated reserves the exact range r. Returns an ErrAlreadyAllocated
// if any part of r is already allocated or out of bounds.
func (a *Allocator) MarkAllocated(r freeranges.Range) error {
	if r.IsEmpty() {
		return nil
	}
	if !a.free.SetRangeUsed(r) {
		return fmt.Errorf("range %v is not in a free block: %w", r, ErrAlreadyAllocated)
	}
	a.AvailableCapacity -= r.Size()
	return nil
}

// Free returns a previously allocated range to the free list, merging with
// adjacent free ranges. r must exactly cover previously allocated indices;
// returns an ErrDoubleFree if all of r is already free.
func (a *Allocator) Free(r freeranges.Range) error {
	if r.IsEmpty() {
		return nil
	}
	if !a.free.SetRangeFree(r) {
		return fmt.Errorf("range %v is already free (double free?): %w", r, ErrDoubleFree)
	}
	a.AvailableCapacity += r.Size()
	return nil
}

// FreeIndex returns a single allocated index to the free list.
func (a *Allocator) FreeIndex(index uint64) error {
	if !a.free.SetFree(index) {
		return fmt.Errorf("index %d is already free (double free?): %w", index, ErrDoubleFree)
	}
	a.AvailableCapacity++
	return nil
}

// IsRangeFree returns true if every index in r is free.
func (a *Allocator) IsRangeFree(r freeranges.Range) bool {
	if r.IsEmpty() {
		return true
	}
	for got := range a.free.RangesAfter(r.Min) {
		return got.Contains(r.Min) && got.Contains(r.Max)
	}
	return false
}

// Grow extends the allocator's capacity to newCapacity, freeing the added
// space and merging it with a trailing free range if one exists.
func (a *Allocator) Grow(newCapacity uint64) error {
	if newCapacity < a.TotalCapacity {
		return fmt.Errorf("cannot grow from capacity %d to smaller capacity %d", a.TotalCapacity, newCapacity)
	}
	if newCapacity == a.TotalCapacity {
		return nil
	}
	added := freeranges.Range{Min: a.TotalCapacity, Max: newCapacity - 1}
	a.free.SetRangeFree(added)
	a.TotalCapacity = newCapacity
	a.AvailableCapacity += added.Size()
	return nil
}
