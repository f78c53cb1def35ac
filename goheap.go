package alloc

import "github.com/pavanmanishd/alloc/internal/unsafecast"

// GoAllocator serves requests from the Go heap. Memory is owned by the
// garbage collector, so Free is a no-op. The collector treats the ranges as
// plain bytes and does not scan them, as with every other strategy.
//
// GoAllocator is the default backing allocator: construct one with
// NewGoAllocator and pass it explicitly wherever an allocator is needed.
type GoAllocator struct{}

// NewGoAllocator returns a Go heap allocator.
func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

// Allocate implements RawAllocator. Alignments beyond what the runtime
// provides are met by padding the allocation and slicing into it.
func (g *GoAllocator) Allocate(size, align int) ([]byte, error) {
	align, err := checkRequest(size, align)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	if err := checkBounds("go heap", size, align); err != nil {
		return nil, err
	}

	buf := make([]byte, size+align-1)
	addr := unsafecast.Addr(buf)
	shift := int(alignUp(addr, uintptr(align)) - addr)
	return buf[shift : shift+size : shift+size], nil
}

// Resize implements RawAllocator. Shrinking keeps the address; growing
// allocates and copies.
func (g *GoAllocator) Resize(buf []byte, align, newSize int) ([]byte, error) {
	align, err := checkRequest(newSize, align)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return g.Allocate(newSize, align)
	}
	if newSize == 0 {
		return nil, nil
	}
	if newSize <= len(buf) {
		return buf[:newSize:newSize], nil
	}

	grown, err := g.Allocate(newSize, align)
	if err != nil {
		return nil, err
	}
	copy(grown, buf)
	return grown, nil
}

// Free implements RawAllocator. The garbage collector reclaims the memory
// once buf is unreachable.
func (g *GoAllocator) Free([]byte, int) {}

var _ RawAllocator = (*GoAllocator)(nil)
