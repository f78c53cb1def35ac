// Package alloc implements pluggable raw-memory allocators for Go.
//
// # Overview
//
// Every strategy implements RawAllocator, a three-method contract sized in
// bytes with an explicit alignment:
//
//   - Allocate(size, align) returns at least size bytes aligned to align
//   - Resize(buf, align, newSize) grows or shrinks buf, preserving its prefix
//   - Free(buf, align) releases buf
//
// Callers depend on the interface only; the strategy is chosen when the
// allocator is constructed and passed explicitly to whatever needs it.
//
// # Strategies
//
// GoAllocator: memory from the Go heap, reclaimed by the garbage collector.
// It is the natural default backing allocator.
//
// HeapAllocator: malloc/realloc/free semantics on memory outside the Go
// heap (modernc.org/memory). Ranges must be freed explicitly, or all at once
// with Close.
//
// MmapAllocator: one anonymous mapping per request, rounded to pages.
//
// ArenaAllocator: a block-chained bump allocator over any backing allocator.
// Blocks form a linked list whose head is the most recent block; requests
// are served by advancing the head's cursor, larger-than-block requests get
// a dedicated block, Free is a no-op and memory is reclaimed in bulk.
//
// # Basic Usage
//
//	backing := alloc.NewGoAllocator()
//	a := alloc.NewArenaAllocator(backing, alloc.DefaultBlockSize)
//	defer a.Destroy()
//
//	// Allocate raw bytes
//	buf, err := a.Allocate(1024, 8)
//
//	// Allocate typed values
//	ptr, err := alloc.New[MyStruct](a)
//	nums, err := alloc.MakeSlice[int32](a, 100)
//
//	// Grow the most recent allocation in place
//	nums, err = alloc.ResizeSlice(a, nums, 150)
//
// # Checkpoints
//
// Mark captures the arena's cursor; Rollback releases every block created
// since and rewinds the cursor, invalidating everything allocated after the
// mark:
//
//	m := a.Mark()
//	scratch, _ := alloc.MakeSlice[byte](a, 4096)
//	use(scratch)
//	if err := a.Rollback(m); err != nil {
//		return err
//	}
//
// A mark taken on an empty arena rolls back to the empty state, which is
// the same as Destroy. Rolling back to a mark of another arena fails with
// ErrForeignMark.
//
// # Errors
//
// Allocation failures wrap ErrOutOfMemory and never invalidate the buffer
// passed to Resize. Arena block creation failures propagate from the
// backing allocator unchanged in kind.
//
// # Important Notes
//
//   - None of the allocators are safe for concurrent use
//   - Memory is not zeroed unless using New or MakeSliceZeroed
//   - The garbage collector does not scan allocator memory: do not store Go
//     pointers in it
//   - Using a range after Free, Rollback past it or Destroy is undefined
//
// # Metrics and Monitoring
//
// The arena reports its state directly:
//
//	metrics := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", metrics.Utilization*100)
//	fmt.Printf("Memory in use: %d bytes\n", metrics.SizeInUse)
//	fmt.Printf("Blocks: %d\n", metrics.NumBlocks)
//
// Package instrument exports the same figures to Prometheus.
package alloc
