package compositor

import "sync"

// pixelPool recycles the byte buffers a stream uses to hold its last frame
// between Close and the encoder's final read. A recording stops and starts
// often enough that full-frame buffers are worth keeping around.
type pixelPool struct {
	p sync.Pool // *[]byte
}

// get returns a buffer of exactly n bytes; contents are undefined.
func (pp *pixelPool) get(n int) []byte {
	if v, ok := pp.p.Get().(*[]byte); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]byte, n)
}

func (pp *pixelPool) put(b []byte) {
	if cap(b) == 0 {
		return
	}
	pp.p.Put(&b)
}

var lastFrames pixelPool
