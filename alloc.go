package alloc

import (
	"math"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/alloc/internal/unsafecast"
)

// elemAlign returns max(align, alignof(T)).
func elemAlign[T any](align int) int {
	return max(align, int(unsafecast.Alignof[T]()))
}

// byteSize returns n*sizeof(T), rejecting negative counts and overflow.
func byteSize[T any](n int) (int, error) {
	size := int(unsafecast.Sizeof[T]())
	if n < 0 || (size > 0 && n > math.MaxInt/size) {
		return 0, errors.Wrapf(ErrInvalidSize, "%d elements of %d bytes", n, size)
	}
	return n * size, nil
}

// MakeSlice allocates n elements of type T from a, aligned to T's natural
// alignment. The elements are not initialized. T should be free of Go
// pointers: the garbage collector does not scan allocator memory.
// Returns nil if n is 0.
func MakeSlice[T any](a RawAllocator, n int) ([]T, error) {
	return MakeSliceAligned[T](a, n, 0)
}

// MakeSliceAligned is like MakeSlice but aligns the first element to
// max(align, alignof(T)).
func MakeSliceAligned[T any](a RawAllocator, n, align int) ([]T, error) {
	size, err := byteSize[T](n)
	if err != nil {
		return nil, err
	}
	if unsafecast.Sizeof[T]() == 0 {
		return make([]T, n), nil
	}
	raw, err := a.Allocate(size, elemAlign[T](align))
	if err != nil {
		return nil, err
	}
	return unsafecast.Slice[byte, T](raw), nil
}

// MakeSliceZeroed allocates n zeroed elements of type T from a.
func MakeSliceZeroed[T any](a RawAllocator, n int) ([]T, error) {
	s, err := MakeSlice[T](a, n)
	if err != nil {
		return nil, err
	}
	clear(s)
	return s, nil
}

// ResizeSlice changes the number of elements of s, which must have been
// obtained from a with natural alignment. The allocation extent is taken
// from cap(s), so s may have been resliced to a shorter length. On failure s
// remains valid.
func ResizeSlice[T any](a RawAllocator, s []T, n int) ([]T, error) {
	return ResizeSliceAligned(a, s, n, 0)
}

// ResizeSliceAligned is ResizeSlice for slices allocated with
// MakeSliceAligned.
func ResizeSliceAligned[T any](a RawAllocator, s []T, n, align int) ([]T, error) {
	size, err := byteSize[T](n)
	if err != nil {
		return nil, err
	}
	if unsafecast.Sizeof[T]() == 0 {
		return make([]T, n), nil
	}
	raw, err := a.Resize(unsafecast.Bytes(s), elemAlign[T](align), size)
	if err != nil {
		return nil, err
	}
	return unsafecast.Slice[byte, T](raw), nil
}

// FreeSlice returns s, allocated from a with natural alignment, to a.
func FreeSlice[T any](a RawAllocator, s []T) {
	FreeSliceAligned(a, s, 0)
}

// FreeSliceAligned is FreeSlice for slices allocated with MakeSliceAligned.
func FreeSliceAligned[T any](a RawAllocator, s []T, align int) {
	if unsafecast.Sizeof[T]() == 0 || cap(s) == 0 {
		return
	}
	a.Free(unsafecast.Bytes(s), elemAlign[T](align))
}

// New returns a pointer to a zeroed T allocated from a.
func New[T any](a RawAllocator) (*T, error) {
	if unsafecast.Sizeof[T]() == 0 {
		return new(T), nil
	}
	s, err := MakeSliceZeroed[T](a, 1)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

// Delete returns p, obtained from New with the same allocator, to a.
func Delete[T any](a RawAllocator, p *T) {
	if p == nil || unsafecast.Sizeof[T]() == 0 {
		return
	}
	a.Free(unsafecast.PointerBytes(p), elemAlign[T](0))
}
