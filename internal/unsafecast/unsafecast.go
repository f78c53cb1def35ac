// Package unsafecast provides utilities for performing unsafe type casts
// between byte ranges and typed slices.
package unsafecast

import "unsafe"

// Sizeof returns the size of T in bytes.
func Sizeof[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Alignof returns the natural alignment of T in bytes.
func Alignof[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// Slice reinterprets a slice of one type as a slice of another type. Slice
// does not perform any type conversion or validation; it simply reinterprets
// the underlying memory.
//
// The length and capacity of the output slice are scaled according to the
// sizes of the From and To types. To must not be zero-sized.
func Slice[From, To any](in []From) []To {
	var (
		fromSize = int(Sizeof[From]())
		toSize   = int(Sizeof[To]())

		toLen = len(in) * fromSize / toSize
		toCap = cap(in) * fromSize / toSize
	)

	outPointer := (*To)(unsafe.Pointer(unsafe.SliceData(in)))
	return unsafe.Slice(outPointer, toCap)[:toLen]
}

// Bytes returns the full capacity of in viewed as bytes. The result has
// equal length and capacity.
func Bytes[T any](in []T) []byte {
	n := cap(in) * int(Sizeof[T]())
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(in))), n)
}

// PointerBytes returns the memory occupied by *p viewed as bytes.
func PointerBytes[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), Sizeof[T]())
}

// Addr returns the address of the first element of b, or 0 for a nil slice.
func Addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
