package alloc

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pavanmanishd/alloc/internal/unsafecast"
)

// DefaultBlockSize is the block size used by configuration defaults (64 KiB).
const DefaultBlockSize = 1 << 16

// block is one region obtained from the backing allocator.
type block struct {
	next      *block
	raw       []byte // as returned by the backing allocator
	mem       []byte // raw[:size:size]
	align     int
	size      int
	allocated int // bump cursor, always <= size
	dedicated bool
}

// base returns the address of the block's first byte.
func (b *block) base() uintptr { return unsafecast.Addr(b.mem) }

// fit returns the offset at which size bytes aligned to align would start,
// and whether they fit in the remaining capacity.
func (b *block) fit(size, align int) (int, bool) {
	base := b.base()
	off := int(alignUp(base+uintptr(b.allocated), uintptr(align)) - base)
	return off, off+size <= b.size
}

// offsetOf reports where buf starts inside b, if it does.
func (b *block) offsetOf(buf []byte) (int, bool) {
	p, base := unsafecast.Addr(buf), b.base()
	if p < base || p > base+uintptr(b.allocated) {
		return 0, false
	}
	return int(p - base), true
}

// Mark is a checkpoint of an arena's bump cursor. Marks are plain values;
// the zero Mark denotes the empty arena and is accepted by every arena.
type Mark struct {
	arena     *ArenaAllocator
	block     *block
	allocated int
}

// Empty reports whether m was taken on an arena with no blocks.
func (m Mark) Empty() bool { return m.block == nil }

// ArenaOption configures an ArenaAllocator.
type ArenaOption func(*ArenaAllocator)

// WithLogger logs block creation and release at debug level.
func WithLogger(logger log.Logger) ArenaOption {
	return func(a *ArenaAllocator) {
		if logger != nil {
			a.logger = log.With(logger, "component", "arena")
		}
	}
}

// ArenaAllocator is a block-chained bump allocator. Blocks come from a
// backing allocator and form a singly linked list whose head is the most
// recent block. Individual frees are ignored; memory is reclaimed in bulk by
// Rollback, Reset or Destroy.
//
// Requests larger than the block size get a dedicated block of exactly that
// size. A block size of 0 gives every non-empty request its own block.
//
// ArenaAllocator is not safe for concurrent use.
type ArenaAllocator struct {
	head      *block
	blockSize int
	backing   RawAllocator
	logger    log.Logger
}

// NewArenaAllocator returns an empty arena drawing blocks of blockSize bytes
// from backing. Negative block sizes are treated as 0. No memory is
// requested until the first allocation.
func NewArenaAllocator(backing RawAllocator, blockSize int, opts ...ArenaOption) *ArenaAllocator {
	if blockSize < 0 {
		blockSize = 0
	}
	a := &ArenaAllocator{
		blockSize: blockSize,
		backing:   backing,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Backing returns the allocator blocks are drawn from.
func (a *ArenaAllocator) Backing() RawAllocator { return a.backing }

// Allocate implements RawAllocator.
func (a *ArenaAllocator) Allocate(size, align int) ([]byte, error) {
	align, err := checkRequest(size, align)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	// Fast path: bump within the head block.
	if b := a.head; b != nil && size <= a.blockSize {
		if off, ok := b.fit(size, align); ok {
			b.allocated = off + size
			return b.mem[off : off+size : off+size], nil
		}
	}

	return a.allocateSlow(size, align)
}

// allocateSlow prepends a block able to hold size bytes and serves the
// request from its start.
func (a *ArenaAllocator) allocateSlow(size, align int) ([]byte, error) {
	dedicated := size > a.blockSize
	blockSize := a.blockSize
	if dedicated {
		blockSize = size
	}

	b, err := a.push(blockSize, align, dedicated)
	if err != nil {
		return nil, err
	}
	b.allocated = size
	return b.mem[:size:size], nil
}

// push obtains a block from the backing allocator and makes it the head.
// Its base is aligned to at least align, so offset 0 serves any request.
func (a *ArenaAllocator) push(size, align int, dedicated bool) (*block, error) {
	align = max(align, BlockAlign)
	raw, err := a.backing.Allocate(size, align)
	if err != nil {
		return nil, errors.Wrapf(err, "arena: new block of %d bytes", size)
	}
	if len(raw) < size {
		a.backing.Free(raw, align)
		return nil, errors.Wrapf(ErrOutOfMemory, "arena: backing returned %d of %d bytes", len(raw), size)
	}

	b := &block{
		next:      a.head,
		raw:       raw,
		mem:       raw[:size:size],
		align:     align,
		size:      size,
		dedicated: dedicated,
	}
	a.head = b
	level.Debug(a.logger).Log("msg", "block created", "size", size, "dedicated", dedicated)
	return b, nil
}

// release returns b's storage to the backing allocator.
func (a *ArenaAllocator) release(b *block) {
	a.backing.Free(b.raw, b.align)
	level.Debug(a.logger).Log("msg", "block released", "size", b.size, "allocated", b.allocated, "dedicated", b.dedicated)
	b.raw, b.mem = nil, nil
	b.next = nil
}

// Resize implements RawAllocator. When buf is the most recent allocation of
// the head block and newSize still fits that block, the cursor moves and the
// address is kept. Otherwise the bytes are copied into a fresh allocation and
// the old range stays allocated until the arena is rolled back or destroyed.
func (a *ArenaAllocator) Resize(buf []byte, align, newSize int) ([]byte, error) {
	align, err := checkRequest(newSize, align)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return a.Allocate(newSize, align)
	}

	if b := a.head; b != nil {
		if off, ok := b.offsetOf(buf); ok && off+len(buf) == b.allocated && newSize <= b.size-off {
			b.allocated = off + newSize
			if newSize == 0 {
				return nil, nil
			}
			return b.mem[off : off+newSize : off+newSize], nil
		}
	}
	if newSize == 0 {
		return nil, nil
	}

	moved, err := a.Allocate(newSize, align)
	if err != nil {
		return nil, err
	}
	copy(moved, buf)
	return moved, nil
}

// Free implements RawAllocator. It does nothing: arena memory is reclaimed
// only by Rollback, Reset and Destroy.
func (a *ArenaAllocator) Free([]byte, int) {}

// EnsureCapacity makes sure the head block has at least n free bytes, so
// that an unaligned allocation of up to n bytes does not create a block.
// Requests larger than the block size always get a dedicated block, so
// there is nothing to reserve for them.
func (a *ArenaAllocator) EnsureCapacity(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrInvalidSize, "size %d", n)
	}
	if n == 0 || n > a.blockSize {
		return nil
	}
	if b := a.head; b != nil && b.size-b.allocated >= n {
		return nil
	}
	_, err := a.push(a.blockSize, 1, false)
	return err
}

// Mark captures the current cursor. Rolling back to it later discards every
// allocation made after this call.
func (a *ArenaAllocator) Mark() Mark {
	if a.head == nil {
		return Mark{arena: a}
	}
	return Mark{arena: a, block: a.head, allocated: a.head.allocated}
}

// Rollback releases every block created after m was taken and rewinds the
// marked block's cursor. Ranges allocated after the mark become invalid; the
// arena does not detect their later use. Rolling back to an empty mark is
// equivalent to Destroy.
//
// The arena is left untouched when m is foreign or its block has already
// been released.
func (a *ArenaAllocator) Rollback(m Mark) error {
	if m.arena != nil && m.arena != a {
		return ErrForeignMark
	}
	if m.block == nil {
		a.Destroy()
		return nil
	}

	reachable := false
	for b := a.head; b != nil; b = b.next {
		if b == m.block {
			reachable = true
			break
		}
	}
	if !reachable {
		return errors.Wrap(ErrStaleMark, "marked block already released")
	}
	for a.head != m.block {
		b := a.head
		a.head = b.next
		a.release(b)
	}
	a.head.allocated = m.allocated
	return nil
}

// Reset releases every block except the oldest and rewinds it, keeping one
// block warm for reuse.
func (a *ArenaAllocator) Reset() {
	for a.head != nil && a.head.next != nil {
		b := a.head
		a.head = b.next
		a.release(b)
	}
	if a.head != nil {
		a.head.allocated = 0
	}
}

// Destroy releases every block. Every range the arena returned becomes
// invalid; the arena itself stays usable and starts over empty.
func (a *ArenaAllocator) Destroy() {
	for a.head != nil {
		b := a.head
		a.head = b.next
		a.release(b)
	}
}

var _ RawAllocator = (*ArenaAllocator)(nil)
