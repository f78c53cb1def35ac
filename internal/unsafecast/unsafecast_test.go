package unsafecast

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	in := make([]byte, 16, 32)
	out := Slice[byte, uint32](in)
	require.Len(t, out, 4)
	require.Equal(t, 8, cap(out))
	require.Equal(t, unsafe.Pointer(&in[0]), unsafe.Pointer(&out[0]))

	out[1] = 0x01020304
	back := Slice[uint32, byte](out)
	require.Len(t, back, 16)
	require.Equal(t, in[4:8], back[4:8])
}

func TestSliceNil(t *testing.T) {
	require.Empty(t, Slice[byte, int64](nil))
}

func TestBytes(t *testing.T) {
	s := make([]int64, 2, 5)
	b := Bytes(s)
	require.Len(t, b, 40, "bytes cover the full capacity")
	require.Equal(t, 40, cap(b))
	require.Equal(t, Addr(b), uintptr(unsafe.Pointer(&s[0])))
}

func TestPointerBytes(t *testing.T) {
	v := struct {
		A int32
		B int16
	}{A: -1}
	b := PointerBytes(&v)
	require.Len(t, b, int(unsafe.Sizeof(v)))
	require.Equal(t, byte(0xFF), b[0])
}

func TestSizeofAlignof(t *testing.T) {
	require.Equal(t, uintptr(8), Sizeof[int64]())
	require.Equal(t, uintptr(0), Sizeof[struct{}]())
	require.Equal(t, unsafe.Alignof(uint64(0)), Alignof[uint64]())
	require.Equal(t, uintptr(1), Alignof[[3]byte]())
}

func TestAddr(t *testing.T) {
	require.Zero(t, Addr(nil))
	b := make([]byte, 4)
	require.Equal(t, uintptr(unsafe.Pointer(&b[0])), Addr(b))
}
