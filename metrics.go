package alloc

// SizeInUse returns the number of bytes consumed across all blocks,
// including alignment padding and bytes abandoned by relocating resizes.
func (a *ArenaAllocator) SizeInUse() int {
	sum := 0
	for b := a.head; b != nil; b = b.next {
		sum += b.allocated
	}
	return sum
}

// NumBlocks returns the number of blocks the arena currently owns.
func (a *ArenaAllocator) NumBlocks() int {
	n := 0
	for b := a.head; b != nil; b = b.next {
		n++
	}
	return n
}

// Capacity returns the total usable size (in bytes) of all blocks.
func (a *ArenaAllocator) Capacity() int {
	sum := 0
	for b := a.head; b != nil; b = b.next {
		sum += b.size
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *ArenaAllocator) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// BlockSize returns the default block size of the arena.
func (a *ArenaAllocator) BlockSize() int {
	return a.blockSize
}

// BlockInfo describes one block of an arena.
type BlockInfo struct {
	Size      int  // Usable bytes
	Allocated int  // Bump cursor
	Dedicated bool // Created for a single request larger than the block size
}

// Blocks returns the arena's blocks, most recent first.
func (a *ArenaAllocator) Blocks() []BlockInfo {
	var infos []BlockInfo
	for b := a.head; b != nil; b = b.next {
		infos = append(infos, BlockInfo{Size: b.size, Allocated: b.allocated, Dedicated: b.dedicated})
	}
	return infos
}

// Metrics returns a snapshot of arena statistics.
func (a *ArenaAllocator) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumBlocks:   a.NumBlocks(),
		BlockSize:   a.BlockSize(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumBlocks   int     // Number of blocks
	BlockSize   int     // Default block size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
