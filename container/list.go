// Package container holds data structures built on alloc.RawAllocator.
// They never allocate on their own: every operation that needs memory takes
// the allocator, or, for Owned, the one it was bound to.
package container

import (
	"fmt"
	"strings"

	"github.com/pavanmanishd/alloc"
)

// List is a growable array whose storage comes from a caller-supplied
// allocator. The zero List is empty and ready to use. Elements must not hold
// Go pointers.
type List[T any] struct {
	items []T // len(items) is the capacity
	n     int
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.n }

// Cap returns the number of elements the list can hold before growing.
func (l *List[T]) Cap() int { return len(l.items) }

// Items returns the elements as a slice aliasing the list's storage.
func (l *List[T]) Items() []T { return l.items[:l.n:l.n] }

// At returns the element at i, if there is one.
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= l.n {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// First returns the first element, if any.
func (l *List[T]) First() (T, bool) { return l.At(0) }

// Last returns the last element, if any.
func (l *List[T]) Last() (T, bool) { return l.At(l.n - 1) }

// Append adds v, doubling the capacity through a when the list is full. On
// failure the list is unchanged.
func (l *List[T]) Append(a alloc.RawAllocator, v T) error {
	if l.n >= len(l.items) {
		capacity := 1
		if len(l.items) > 0 {
			capacity = 2 * len(l.items)
		}
		items, err := alloc.ResizeSlice(a, l.items, capacity)
		if err != nil {
			return err
		}
		l.items = items
	}
	l.items[l.n] = v
	l.n++
	return nil
}

// Clone returns a copy of l whose storage, sized to its length, comes from a.
func (l *List[T]) Clone(a alloc.RawAllocator) (List[T], error) {
	items, err := alloc.MakeSlice[T](a, l.n)
	if err != nil {
		return List[T]{}, err
	}
	copy(items, l.items[:l.n])
	return List[T]{items: items, n: l.n}, nil
}

// Destroy returns the storage to a, which must be the allocator the list
// grew with, and leaves l empty.
func (l *List[T]) Destroy(a alloc.RawAllocator) {
	alloc.FreeSlice(a, l.items)
	*l = List[T]{}
}

// String formats the elements like a Go slice.
func (l *List[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.Items() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Owned is a List bound to the allocator it grows with.
type Owned[T any] struct {
	List[T]
	a alloc.RawAllocator
}

// NewOwned returns an empty list bound to a.
func NewOwned[T any](a alloc.RawAllocator) *Owned[T] {
	return &Owned[T]{a: a}
}

// Append adds v.
func (o *Owned[T]) Append(v T) error { return o.List.Append(o.a, v) }

// Clone returns an unbound copy allocated from the same allocator.
func (o *Owned[T]) Clone() (List[T], error) { return o.List.Clone(o.a) }

// Close releases the storage. It is safe to call more than once.
func (o *Owned[T]) Close() error {
	o.List.Destroy(o.a)
	return nil
}
