//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package alloc

import "github.com/go-kit/log"

// MmapAllocator is unavailable on this platform; every request fails with
// ErrUnsupported.
type MmapAllocator struct{}

// NewMmapAllocator returns ErrUnsupported.
func NewMmapAllocator(log.Logger) (*MmapAllocator, error) {
	return nil, ErrUnsupported
}

// PageSize returns 0.
func (m *MmapAllocator) PageSize() int { return 0 }

// Allocate implements RawAllocator.
func (m *MmapAllocator) Allocate(int, int) ([]byte, error) { return nil, ErrUnsupported }

// Resize implements RawAllocator.
func (m *MmapAllocator) Resize([]byte, int, int) ([]byte, error) { return nil, ErrUnsupported }

// Free implements RawAllocator.
func (m *MmapAllocator) Free([]byte, int) {}

var _ RawAllocator = (*MmapAllocator)(nil)
