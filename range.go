// Package freeranges tracks which indices in a dense space of uint64s are
// free, storing them as maximal, pairwise-disjoint, non-adjacent closed
// ranges in a btree ordered so that point lookups find the containing range
// in logarithmic time.
package freeranges

import (
	"fmt"
	"math"
)

// EmptyRange is a range that is always empty.
var EmptyRange = Range{Min: 1, Max: 0}

type Range struct {
	// The smallest index in the range (inclusive)
	Min uint64
	// The largest index in the range (inclusive)
	Max uint64
}

// Point returns the single-index range [index, index].
func Point(index uint64) Range {
	return Range{Min: index, Max: index}
}

func (r Range) IsEmpty() bool {
	return r.Max < r.Min
}

// Size returns the number of indices in the range. The full range
// [0, math.MaxUint64] wraps to 0.
func (r Range) Size() uint64 {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

func (r Range) Contains(index uint64) bool {
	return index >= r.Min && index <= r.Max
}

func (r Range) Overlaps(other Range) bool {
	return r.Min <= other.Max && other.Min <= r.Max
}

// Adjacent returns true if the ranges touch without overlapping, i.e. one
// begins exactly one index after the other ends.
func (r Range) Adjacent(other Range) bool {
	if r.Max < math.MaxUint64 && r.Max+1 == other.Min {
		return true
	}
	if other.Max < math.MaxUint64 && other.Max+1 == r.Min {
		return true
	}
	return false
}

// Merge returns the union of two overlapping or adjacent ranges.
func (r Range) Merge(other Range) Range {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		panic("cannot merge non-overlapping, non-adjacent ranges")
	}
	merged := r
	if other.Min < merged.Min {
		merged.Min = other.Min
	}
	if other.Max > merged.Max {
		merged.Max = other.Max
	}
	return merged
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}
