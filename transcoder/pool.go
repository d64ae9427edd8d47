package transcoder

import (
	"sync"
	"unsafe"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap64  = 1 << 16 // max uint64 words kept
	poolInitCap64 = 64
)

// scratch for realigning raw input
var buf64Pool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 0, poolInitCap64)
		return &buf
	},
}

func getBuf64(words int) *[]uint64 {
	buf := buf64Pool.Get().(*[]uint64)
	if cap(*buf) < words {
		*buf = make([]uint64, words)
	}
	*buf = (*buf)[:words]
	return buf
}

func putBuf64(buf *[]uint64) {
	if buf == nil || cap(*buf) > poolMaxCap64 {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	buf64Pool.Put(buf)
}

func noRelease() {}

// unitsOf views raw native-endian bytes as code units of type T. Aligned
// input is reinterpreted in place; misaligned input is copied into pooled
// scratch, which release returns.
func unitsOf[T uint16 | uint32](raw []byte) (units []T, release func()) {
	size := int(unsafe.Sizeof(T(0)))
	count := len(raw) / size
	if count == 0 {
		return nil, noRelease
	}

	p := unsafe.Pointer(unsafe.SliceData(raw))
	if uintptr(p)%unsafe.Alignof(T(0)) == 0 {
		return unsafe.Slice((*T)(p), count), noRelease
	}

	buf := getBuf64((len(raw) + 7) / 8)
	scratch := unsafe.Pointer(unsafe.SliceData(*buf))
	copy(unsafe.Slice((*byte)(scratch), len(raw)), raw)
	return unsafe.Slice((*T)(scratch), count), func() { putBuf64(buf) }
}
