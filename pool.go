package bytevec

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 1024 // max size entries
	poolInitCap = 16
)

// scratch pool for per-element size tables built during the two-pass
// composite encode and the header parse on decode
var sizesPool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 0, poolInitCap)
		return &buf
	},
}

func getSizes() *[]uint64 {
	return sizesPool.Get().(*[]uint64)
}

func putSizes(buf *[]uint64) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	sizesPool.Put(buf)
}
