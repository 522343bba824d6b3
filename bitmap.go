package freeranges

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ToBitmap materializes the free indices as a roaring bitmap with one set
// bit per free index. The set should be bounded; converting a set built with
// NewAllFree is impractical.
func (f *FreeRanges) ToBitmap() *roaring64.Bitmap {
	b := roaring64.New()
	f.list.Ascend(func(item Range) bool {
		if item.Max == math.MaxUint64 {
			// AddRange is exclusive of the end, so the top index needs its own Add
			b.AddRange(item.Min, item.Max)
			b.Add(item.Max)
		} else {
			b.AddRange(item.Min, item.Max+1)
		}
		return true
	})
	return b
}

// FromBitmap builds a set whose free indices are exactly the set bits of b,
// reconstructing maximal contiguous runs directly.
func FromBitmap(b *roaring64.Bitmap) *FreeRanges {
	f := New()
	it := b.Iterator()
	if !it.HasNext() {
		return f
	}
	run := Point(it.Next())
	for it.HasNext() {
		next := it.Next()
		if next == run.Max+1 {
			run.Max = next
			continue
		}
		f.list.ReplaceOrInsert(run)
		run = Point(next)
	}
	f.list.ReplaceOrInsert(run)
	return f
}
