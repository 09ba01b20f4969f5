package radius

import "sync"

// bufferPool recycles scratch byte slices used by decodeConcat while
// reassembling concatenated attribute values, avoiding an allocation per
// fragment on the hot decode path.
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 256)
		return &buf
	},
}

// getScratch returns a zero-length scratch buffer from the pool.
func getScratch() *[]byte {
	buf := bufferPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// putScratch returns buf to the pool for reuse.
func putScratch(buf *[]byte) {
	bufferPool.Put(buf)
}
