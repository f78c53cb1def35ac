package instrument

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pavanmanishd/alloc"
)

// Allocator wraps an alloc.RawAllocator, counting every operation and
// logging failures.
type Allocator struct {
	next   alloc.RawAllocator
	name   string
	m      *Metrics
	logger log.Logger
}

// New wraps next under the given name. A nil logger disables logging.
func New(name string, next alloc.RawAllocator, m *Metrics, logger log.Logger) *Allocator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Allocator{
		next:   next,
		name:   name,
		m:      m,
		logger: log.With(logger, "allocator", name),
	}
}

// Unwrap returns the wrapped allocator.
func (a *Allocator) Unwrap() alloc.RawAllocator { return a.next }

// Allocate implements alloc.RawAllocator.
func (a *Allocator) Allocate(size, align int) ([]byte, error) {
	a.m.operations.WithLabelValues(a.name, opAllocate).Inc()
	buf, err := a.next.Allocate(size, align)
	if err != nil {
		a.m.failures.WithLabelValues(a.name, opAllocate).Inc()
		level.Warn(a.logger).Log("msg", "allocate failed", "size", size, "align", align, "err", err)
		return nil, err
	}
	a.m.requestedBytes.WithLabelValues(a.name).Add(float64(len(buf)))
	return buf, nil
}

// Resize implements alloc.RawAllocator.
func (a *Allocator) Resize(buf []byte, align, newSize int) ([]byte, error) {
	a.m.operations.WithLabelValues(a.name, opResize).Inc()
	resized, err := a.next.Resize(buf, align, newSize)
	if err != nil {
		a.m.failures.WithLabelValues(a.name, opResize).Inc()
		level.Warn(a.logger).Log("msg", "resize failed", "size", len(buf), "new_size", newSize, "err", err)
		return nil, err
	}
	a.m.requestedBytes.WithLabelValues(a.name).Add(float64(len(resized)))
	return resized, nil
}

// Free implements alloc.RawAllocator.
func (a *Allocator) Free(buf []byte, align int) {
	a.m.operations.WithLabelValues(a.name, opFree).Inc()
	a.m.freedBytes.WithLabelValues(a.name).Add(float64(len(buf)))
	a.next.Free(buf, align)
}

var _ alloc.RawAllocator = (*Allocator)(nil)
