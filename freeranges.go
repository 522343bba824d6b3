package freeranges

import (
	"iter"
	"math"

	"github.com/google/btree"
)

const btreeDegree = 32

// rangeLess orders ranges by Min, except that ranges which overlap compare
// equal (neither is less than the other). This is not a total order over
// arbitrary ranges; it is only consistent while the stored ranges are
// pairwise disjoint, which FreeRanges maintains after every mutation. Under
// that invariant, looking up a point range finds the unique stored range
// containing it.
func rangeLess(a, b Range) bool {
	if a.Contains(b.Min) || a.Contains(b.Max) || b.Contains(a.Min) || b.Contains(a.Max) {
		return false
	}
	return a.Min < b.Min
}

// FreeRanges tracks a set of free indices as maximal, disjoint, non-adjacent
// closed ranges. It is not thread-safe.
type FreeRanges struct {
	list *btree.BTreeG[Range]
}

// New returns an empty set with no indices free.
func New() *FreeRanges {
	return &FreeRanges{list: btree.NewG(btreeDegree, rangeLess)}
}

// NewAllFree returns a set with every representable index free.
func NewAllFree() *FreeRanges {
	return NewWithRange(Range{Min: 0, Max: math.MaxUint64})
}

// NewWithRange returns a set with exactly the indices in r free. An empty
// range yields an empty set.
func NewWithRange(r Range) *FreeRanges {
	f := New()
	if !r.IsEmpty() {
		f.list.ReplaceOrInsert(r)
	}
	return f
}

// Clone returns an independent copy of the set.
func (f *FreeRanges) Clone() *FreeRanges {
	c := New()
	f.list.Ascend(func(item Range) bool {
		c.list.ReplaceOrInsert(item)
		return true
	})
	return c
}

// Len returns the number of stored contiguous free ranges.
func (f *FreeRanges) Len() int {
	return f.list.Len()
}

// IsFree returns true if index is free.
func (f *FreeRanges) IsFree(index uint64) bool {
	return f.list.Has(Point(index))
}

// First returns the smallest free index, or false if no index is free.
func (f *FreeRanges) First() (uint64, bool) {
	first, ok := f.list.Min()
	if !ok {
		return 0, false
	}
	return first.Min, true
}

// Last returns the largest free index, or false if no index is free.
func (f *FreeRanges) Last() (uint64, bool) {
	last, ok := f.list.Max()
	if !ok {
		return 0, false
	}
	return last.Max, true
}

// Ranges iterates over all free ranges in ascending order. The set must not
// be mutated during iteration.
func (f *FreeRanges) Ranges() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		f.list.Ascend(func(item Range) bool {
			return yield(item)
		})
	}
}

// RangesAfter iterates in ascending order over the free ranges at or after
// start, beginning with the range containing start if one exists.
func (f *FreeRanges) RangesAfter(start uint64) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		f.list.AscendGreaterOrEqual(Point(start), func(item Range) bool {
			return yield(item)
		})
	}
}

// RangesBefore iterates in descending order over the free ranges at or
// before end, beginning with the range containing end if one exists.
func (f *FreeRanges) RangesBefore(end uint64) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		f.list.DescendLessOrEqual(Point(end), func(item Range) bool {
			return yield(item)
		})
	}
}

// SetFree marks a single index as free. Returns false if it was already
// free.
func (f *FreeRanges) SetFree(index uint64) bool {
	if f.list.Has(Point(index)) {
		return false
	}
	f.free(Point(index))
	return true
}

// SetRangeFree marks every index in r as free. Returns false without
// mutating only when all of r already lies inside a single free range. r
// must be non-empty.
func (f *FreeRanges) SetRangeFree(r Range) bool {
	front, frontOK := f.list.Get(Point(r.Min))
	back, backOK := f.list.Get(Point(r.Max))
	if frontOK && backOK && front == back {
		return false
	}
	f.free(r)
	return true
}

// free inserts r, absorbing every stored range that overlaps or is adjacent
// to it so the stored ranges stay maximal. The probe is widened by one index
// on each side to catch adjacent neighbors, guarding both numeric limits.
func (f *FreeRanges) free(r Range) {
	probe := r
	if probe.Min > 0 {
		probe.Min--
	}
	if probe.Max < math.MaxUint64 {
		probe.Max++
	}

	// Several stored ranges can compare equal to the probe at once, and the
	// btree makes no promise about which of them a search lands on. Get
	// returns one overlapping range per call, so drain until none remain,
	// then insert the union.
	merged := r
	for {
		item, ok := f.list.Get(probe)
		if !ok {
			break
		}
		f.list.Delete(item)
		if item.Min < merged.Min {
			merged.Min = item.Min
		}
		if item.Max > merged.Max {
			merged.Max = item.Max
		}
	}
	f.list.ReplaceOrInsert(merged)
}

// SetUsed marks a free index as used, splitting the range containing it.
// Returns false if the index was not free.
func (f *FreeRanges) SetUsed(index uint64) bool {
	containing, ok := f.list.Get(Point(index))
	if !ok {
		return false
	}
	f.list.Delete(containing)
	if containing.Min < index {
		f.list.ReplaceOrInsert(Range{Min: containing.Min, Max: index - 1})
	}
	if index < containing.Max {
		f.list.ReplaceOrInsert(Range{Min: index + 1, Max: containing.Max})
	}
	return true
}

// SetRangeUsed marks every index in r as used. Returns false without
// mutating unless all of r lies inside a single free range. r must be
// non-empty.
func (f *FreeRanges) SetRangeUsed(r Range) bool {
	containing, ok := f.list.Get(Point(r.Min))
	if !ok || containing.Max < r.Max {
		return false
	}
	f.list.Delete(containing)
	if containing.Min < r.Min {
		f.list.ReplaceOrInsert(Range{Min: containing.Min, Max: r.Min - 1})
	}
	if r.Max < containing.Max {
		f.list.ReplaceOrInsert(Range{Min: r.Max + 1, Max: containing.Max})
	}
	return true
}

// SetFirstUsed marks the smallest free index as used and returns it.
func (f *FreeRanges) SetFirstUsed() (uint64, bool) {
	first, ok := f.list.DeleteMin()
	if !ok {
		return 0, false
	}
	if first.Min < first.Max {
		f.list.ReplaceOrInsert(Range{Min: first.Min + 1, Max: first.Max})
	}
	return first.Min, true
}

// SetLastUsed marks the largest free index as used and returns it.
func (f *FreeRanges) SetLastUsed() (uint64, bool) {
	last, ok := f.list.DeleteMax()
	if !ok {
		return 0, false
	}
	if last.Min < last.Max {
		f.list.ReplaceOrInsert(Range{Min: last.Min, Max: last.Max - 1})
	}
	return last.Max, true
}

// RemoveLastContiguous discards the entire last free range.
func (f *FreeRanges) RemoveLastContiguous() {
	f.list.DeleteMax()
}

// Clear discards all free ranges.
func (f *FreeRanges) Clear() {
	f.list.Clear(false)
}
