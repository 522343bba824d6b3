package blockalloc

var (
	// ErrNoCapacity is returned when no single free range can satisfy an
	// allocation request.
	ErrNoCapacity = &AllocError{"no capacity available for allocation"}
	// ErrAlreadyAllocated is returned when a reservation overlaps an
	// allocated index or falls outside the allocator's capacity.
	ErrAlreadyAllocated = &AllocError{"requested range is already allocated"}
	// ErrDoubleFree is returned when freeing indices that are already on the
	// free list.
	ErrDoubleFree = &AllocError{"requested range is already free"}
)

// AllocError describes why the allocator rejected an operation. Errors
// wrapping a sentinel above match it with errors.Is.
type AllocError struct {
	Msg string
}

func (e *AllocError) Error() string {
	return e.Msg
}

func (e *AllocError) Is(target error) bool {
	if targetErr, ok := target.(*AllocError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}
