// Package alloctest provides allocators for testing code that takes an
// alloc.RawAllocator: one that fails on demand and one that keeps a ledger
// of live allocations.
package alloctest

import (
	"github.com/pkg/errors"

	"github.com/pavanmanishd/alloc"
	"github.com/pavanmanishd/alloc/internal/unsafecast"
)

// Faulty forwards to Next until Budget successful Allocate and Resize calls
// have been made, then fails every further one with alloc.ErrOutOfMemory.
// A negative Budget never fails.
type Faulty struct {
	Next   alloc.RawAllocator
	Budget int

	Allocs, Resizes, Frees, Failures int
}

// NewFaulty returns a Faulty allowing budget successful requests.
func NewFaulty(next alloc.RawAllocator, budget int) *Faulty {
	return &Faulty{Next: next, Budget: budget}
}

func (f *Faulty) spend() error {
	if f.Budget == 0 {
		f.Failures++
		return errors.Wrap(alloc.ErrOutOfMemory, "alloctest: injected failure")
	}
	if f.Budget > 0 {
		f.Budget--
	}
	return nil
}

// Allocate implements alloc.RawAllocator.
func (f *Faulty) Allocate(size, align int) ([]byte, error) {
	f.Allocs++
	if err := f.spend(); err != nil {
		return nil, err
	}
	return f.Next.Allocate(size, align)
}

// Resize implements alloc.RawAllocator.
func (f *Faulty) Resize(buf []byte, align, newSize int) ([]byte, error) {
	f.Resizes++
	if err := f.spend(); err != nil {
		return nil, err
	}
	return f.Next.Resize(buf, align, newSize)
}

// Free implements alloc.RawAllocator.
func (f *Faulty) Free(buf []byte, align int) {
	f.Frees++
	f.Next.Free(buf, align)
}

// Allocation is one live range recorded by a Tracker.
type Allocation struct {
	Addr  uintptr
	Size  int
	Align int
}

// Tracker forwards to Next and records every live range by address. It
// reports frees of unknown ranges and alignment violations as Errors.
type Tracker struct {
	Next alloc.RawAllocator

	live   map[uintptr]Allocation
	Errors []error
}

// NewTracker returns a Tracker over next.
func NewTracker(next alloc.RawAllocator) *Tracker {
	return &Tracker{Next: next, live: make(map[uintptr]Allocation)}
}

func (t *Tracker) record(buf []byte, align int) {
	if len(buf) == 0 {
		return
	}
	addr := unsafecast.Addr(buf)
	if align > 1 && addr%uintptr(align) != 0 {
		t.Errors = append(t.Errors, errors.Errorf("alloctest: %#x not aligned to %d", addr, align))
	}
	t.live[addr] = Allocation{Addr: addr, Size: len(buf), Align: align}
}

func (t *Tracker) forget(buf []byte) {
	if len(buf) == 0 {
		return
	}
	addr := unsafecast.Addr(buf)
	if _, ok := t.live[addr]; !ok {
		t.Errors = append(t.Errors, errors.Errorf("alloctest: free of unknown range %#x (%d bytes)", addr, len(buf)))
		return
	}
	delete(t.live, addr)
}

// Allocate implements alloc.RawAllocator.
func (t *Tracker) Allocate(size, align int) ([]byte, error) {
	buf, err := t.Next.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	t.record(buf, align)
	return buf, nil
}

// Resize implements alloc.RawAllocator.
func (t *Tracker) Resize(buf []byte, align, newSize int) ([]byte, error) {
	resized, err := t.Next.Resize(buf, align, newSize)
	if err != nil {
		return nil, err
	}
	t.forget(buf)
	t.record(resized, align)
	return resized, nil
}

// Free implements alloc.RawAllocator.
func (t *Tracker) Free(buf []byte, align int) {
	t.forget(buf)
	t.Next.Free(buf, align)
}

// Live returns the number of ranges not yet freed.
func (t *Tracker) Live() int { return len(t.live) }

// LiveBytes returns the total size of ranges not yet freed.
func (t *Tracker) LiveBytes() int {
	n := 0
	for _, a := range t.live {
		n += a.Size
	}
	return n
}

// Sizes returns the size of every live range, in no particular order.
func (t *Tracker) Sizes() []int {
	sizes := make([]int, 0, len(t.live))
	for _, a := range t.live {
		sizes = append(sizes, a.Size)
	}
	return sizes
}

var (
	_ alloc.RawAllocator = (*Faulty)(nil)
	_ alloc.RawAllocator = (*Tracker)(nil)
)
