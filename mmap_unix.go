//go:build linux || darwin || freebsd || netbsd || openbsd

package alloc

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MmapAllocator serves every request from its own anonymous private
// mapping. Sizes are rounded up to whole pages, and the returned range's
// capacity covers the full mapping, so Resize within that capacity never
// moves. It suits large, long-lived arena blocks rather than small objects.
type MmapAllocator struct {
	pageSize int
	logger   log.Logger
}

// NewMmapAllocator returns a page allocator. A nil logger disables logging.
func NewMmapAllocator(logger log.Logger) (*MmapAllocator, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &MmapAllocator{
		pageSize: os.Getpagesize(),
		logger:   log.With(logger, "component", "mmap"),
	}, nil
}

// PageSize returns the granularity of every mapping.
func (m *MmapAllocator) PageSize() int { return m.pageSize }

// Allocate implements RawAllocator. Alignments above the page size are
// rejected with ErrInvalidAlign.
func (m *MmapAllocator) Allocate(size, align int) ([]byte, error) {
	align, err := checkRequest(size, align)
	if err != nil {
		return nil, err
	}
	if align > m.pageSize {
		return nil, errors.Wrapf(ErrInvalidAlign, "mmap: align %d exceeds page size %d", align, m.pageSize)
	}
	if size == 0 {
		return nil, nil
	}
	if err := checkBounds("mmap", size, m.pageSize); err != nil {
		return nil, err
	}

	length := int(alignUp(uintptr(size), uintptr(m.pageSize)))
	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(ErrOutOfMemory, "mmap: map %d bytes: %v", length, err)
	}
	return data[:size], nil
}

// Resize implements RawAllocator.
func (m *MmapAllocator) Resize(buf []byte, align, newSize int) ([]byte, error) {
	if _, err := checkRequest(newSize, align); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return m.Allocate(newSize, align)
	}
	if newSize == 0 {
		m.Free(buf, align)
		return nil, nil
	}
	if newSize <= cap(buf) {
		return buf[:newSize], nil
	}

	moved, err := m.Allocate(newSize, align)
	if err != nil {
		return nil, err
	}
	copy(moved, buf)
	m.Free(buf, align)
	return moved, nil
}

// Free implements RawAllocator. buf must span the start of its mapping.
func (m *MmapAllocator) Free(buf []byte, _ int) {
	if cap(buf) == 0 {
		return
	}
	if err := unix.Munmap(buf[:cap(buf)]); err != nil {
		level.Warn(m.logger).Log("msg", "munmap failed", "size", cap(buf), "err", err)
	}
}

var _ RawAllocator = (*MmapAllocator)(nil)
