package alloc

import "github.com/pkg/errors"

var (
	// ErrOutOfMemory indicates the backing store could not satisfy a request.
	// The buffer passed to a failed Resize remains valid.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidSize indicates a negative size or an element count whose
	// byte size overflows int.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrInvalidAlign indicates an alignment that is not a power of two, or
	// one the strategy cannot honor.
	ErrInvalidAlign = errors.New("alloc: alignment must be a power of two")

	// ErrStaleMark indicates a rollback to a mark whose block has already
	// been released.
	ErrStaleMark = errors.New("alloc: mark no longer valid for this arena")

	// ErrForeignMark indicates a rollback to a mark taken on another arena.
	ErrForeignMark = errors.New("alloc: mark belongs to a different arena")

	// ErrUnsupported indicates a strategy unavailable on this platform.
	ErrUnsupported = errors.New("alloc: not supported on this platform")
)
