package alloc

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"modernc.org/memory"

	"github.com/pavanmanishd/alloc/internal/unsafecast"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// HeapAllocator is a pass-through to a malloc-style heap that lives outside
// the Go garbage collector (modernc.org/memory). Every range must be
// released with Free, or all of them at once with Close.
//
// Requests aligned to at most BlockAlign are served directly. Larger
// alignments over-allocate and store the distance back to the raw pointer in
// the word just before the returned address; such ranges must be resized and
// freed with the same align they were allocated with.
//
// HeapAllocator is not safe for concurrent use.
type HeapAllocator struct {
	mem    memory.Allocator
	logger log.Logger
}

// NewHeapAllocator returns an empty off-heap allocator. A nil logger
// disables logging.
func NewHeapAllocator(logger log.Logger) *HeapAllocator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HeapAllocator{logger: log.With(logger, "component", "heap")}
}

// Allocate implements RawAllocator.
func (h *HeapAllocator) Allocate(size, align int) ([]byte, error) {
	align, err := checkRequest(size, align)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	if err := checkBounds("heap", size, align); err != nil {
		return nil, err
	}

	if align <= BlockAlign {
		p, err := h.mem.UintptrMalloc(size)
		if err != nil {
			return nil, errors.Wrapf(ErrOutOfMemory, "heap: malloc %d bytes: %v", size, err)
		}
		return bytesAt(p, size), nil
	}

	raw, err := h.mem.UintptrMalloc(size + align)
	if err != nil {
		return nil, errors.Wrapf(ErrOutOfMemory, "heap: malloc %d bytes aligned to %d: %v", size, align, err)
	}
	// raw is BlockAlign-aligned, so p-raw is at least BlockAlign and leaves
	// room for the back offset.
	p := alignUp(raw+1, uintptr(align))
	*(*uintptr)(unsafe.Pointer(p - ptrSize)) = p - raw
	return bytesAt(p, size), nil
}

// Resize implements RawAllocator.
func (h *HeapAllocator) Resize(buf []byte, align, newSize int) ([]byte, error) {
	align, err := checkRequest(newSize, align)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return h.Allocate(newSize, align)
	}
	if newSize == 0 {
		h.Free(buf, align)
		return nil, nil
	}

	if align <= BlockAlign {
		if err := checkBounds("heap", newSize, align); err != nil {
			return nil, err
		}
		p, err := h.mem.UintptrRealloc(unsafecast.Addr(buf), newSize)
		if err != nil {
			return nil, errors.Wrapf(ErrOutOfMemory, "heap: realloc %d to %d bytes: %v", len(buf), newSize, err)
		}
		return bytesAt(p, newSize), nil
	}

	moved, err := h.Allocate(newSize, align)
	if err != nil {
		return nil, err
	}
	copy(moved, buf)
	h.Free(buf, align)
	return moved, nil
}

// Free implements RawAllocator. Empty ranges are ignored.
func (h *HeapAllocator) Free(buf []byte, align int) {
	if len(buf) == 0 {
		return
	}
	p := unsafecast.Addr(buf)
	if align > BlockAlign {
		p -= *(*uintptr)(unsafe.Pointer(p - ptrSize))
	}
	if err := h.mem.UintptrFree(p); err != nil {
		level.Warn(h.logger).Log("msg", "free failed", "size", len(buf), "err", err)
	}
}

// Close releases every range still allocated from h. h may be reused
// afterwards.
func (h *HeapAllocator) Close() error {
	return h.mem.Close()
}

var _ RawAllocator = (*HeapAllocator)(nil)
