package alloc

import (
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage tests scenarios where an arena should excel
func BenchmarkRealisticUsage(b *testing.B) {
	backings := map[string]func() RawAllocator{
		"Go":   func() RawAllocator { return NewGoAllocator() },
		"Heap": func() RawAllocator { return NewHeapAllocator(nil) },
	}

	for name, newBacking := range backings {
		// Many small allocations with per-request cleanup
		b.Run("ManySmallAllocs/Arena"+name, func(b *testing.B) {
			backing := newBacking()
			defer closeBacking(backing)
			a := NewArenaAllocator(backing, 64*1024)
			defer a.Destroy()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				m := a.Mark()
				for j := 0; j < 100; j++ {
					_, _ = a.Allocate(64, 8)
				}
				_ = a.Rollback(m)
			}
		})

		// Temporary buffers of mixed sizes
		b.Run("BufferReuse/Arena"+name, func(b *testing.B) {
			backing := newBacking()
			defer closeBacking(backing)
			a := NewArenaAllocator(backing, 1024*1024)
			defer a.Destroy()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for j := 0; j < 10; j++ {
					buf1, _ := a.Allocate(1024, 8)
					buf2, _ := a.Allocate(2048, 8)
					buf3, _ := a.Allocate(512, 8)

					buf1[0] = byte(j)
					buf2[0] = byte(j)
					buf3[0] = byte(j)
				}
				a.Reset()
			}
		})
	}

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 100)
			for j := 0; j < 100; j++ {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Struct allocation patterns
	type TestStruct struct {
		ID   int64
		Data [56]byte // Total 64 bytes
	}

	b.Run("StructAllocs/Arena", func(b *testing.B) {
		a := NewArenaAllocator(NewGoAllocator(), 64*1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 50; j++ {
				s, _ := New[TestStruct](a)
				s.ID = int64(j)
			}
			a.Reset()
		}
	})

	b.Run("StructAllocs/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			structs := make([]*TestStruct, 50)
			for j := 0; j < 50; j++ {
				structs[j] = &TestStruct{ID: int64(j)}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Growing a slice that stays at the head of the arena
	b.Run("GrowInPlace/Arena", func(b *testing.B) {
		a := NewArenaAllocator(NewGoAllocator(), 1024*1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s, _ := MakeSlice[int64](a, 1)
			for n := 2; n <= 256; n *= 2 {
				s, _ = ResizeSlice(a, s, n)
			}
			a.Reset()
		}
	})

	b.Run("GrowInPlace/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var s []int64
			for n := 0; n < 256; n++ {
				s = append(s, int64(n))
			}
			_ = s
		}
	})
}

// BenchmarkWorstCaseScenarios covers patterns where an arena does poorly
func BenchmarkWorstCaseScenarios(b *testing.B) {
	// Tiny allocations pay alignment padding on every request
	b.Run("TinyAligned/Arena", func(b *testing.B) {
		a := NewArenaAllocator(NewGoAllocator(), 64*1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = a.Allocate(1, 16)
			if i%10000 == 9999 {
				a.Reset()
			}
		}
	})

	// Every request larger than the block size costs a backing allocation
	b.Run("DedicatedChurn/Arena", func(b *testing.B) {
		a := NewArenaAllocator(NewGoAllocator(), 1024)
		m := a.Mark()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = a.Allocate(4096, 8)
			_ = a.Rollback(m)
		}
	})

	// Resizing an older allocation copies and abandons the old bytes
	b.Run("ResizeNotLast/Arena", func(b *testing.B) {
		a := NewArenaAllocator(NewGoAllocator(), 1024*1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buf, _ := a.Allocate(256, 8)
			_, _ = a.Allocate(8, 8)
			_, _ = a.Resize(buf, 8, 512)
			if i%1000 == 999 {
				a.Reset()
			}
		}
	})
}

func closeBacking(a RawAllocator) {
	if c, ok := a.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
