package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// BlockAlign is the base alignment of every block an arena requests from its
// backing allocator, and the alignment the off-heap allocator provides
// without padding.
const BlockAlign = 2 * int(unsafe.Sizeof(uintptr(0)))

// maxRequest bounds a single request including alignment padding. It stays
// below the Go runtime's own allocation limit on 64-bit platforms.
const maxRequest = 1 << (30 + 17*(^uint(0)>>63))

// RawAllocator is the capability every allocation strategy implements. Sizes
// are in bytes; align must be a power of two (values <= 0 mean 1).
//
// Allocate returns a range of at least size bytes whose address is a
// multiple of align. A zero size yields a nil range. Memory is not zeroed.
//
// Resize returns a range of exactly newSize bytes whose leading
// min(len(buf), newSize) bytes equal those of buf. On failure buf remains
// valid and unchanged. A nil or empty buf makes Resize equivalent to
// Allocate.
//
// Free releases buf. The range must not be used afterwards. Strategies with
// bulk reclamation, such as ArenaAllocator, ignore it.
type RawAllocator interface {
	Allocate(size, align int) ([]byte, error)
	Resize(buf []byte, align, newSize int) ([]byte, error)
	Free(buf []byte, align int)
}

// normalizeAlign validates align and maps non-positive values to 1.
func normalizeAlign(align int) (int, error) {
	if align <= 0 {
		return 1, nil
	}
	if align&(align-1) != 0 {
		return 0, errors.Wrapf(ErrInvalidAlign, "align %d", align)
	}
	return align, nil
}

// checkRequest validates a size/align pair and returns the normalized align.
func checkRequest(size, align int) (int, error) {
	if size < 0 {
		return 0, errors.Wrapf(ErrInvalidSize, "size %d", size)
	}
	return normalizeAlign(align)
}

// checkBounds reports ErrOutOfMemory when size bytes padded for align
// cannot be requested at all.
func checkBounds(what string, size, align int) error {
	if size > maxRequest-align {
		return errors.Wrapf(ErrOutOfMemory, "%s: %d bytes aligned to %d exceeds limit", what, size, align)
	}
	return nil
}

// alignUp rounds p up to the next multiple of align (a power of two).
func alignUp(p, align uintptr) uintptr {
	mask := align - 1
	return (p + mask) &^ mask
}

// bytesAt returns a full-capacity byte slice of n bytes starting at p.
func bytesAt(p uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}
