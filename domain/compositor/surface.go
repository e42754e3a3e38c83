package compositor

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

var (
	// ErrSurfaceBound is returned when a resize or second bind is attempted
	// while a recording stream holds the surface dimensions.
	ErrSurfaceBound = errors.New("compositor: surface bound to a stream")
	// ErrStreamClosed is returned by reads on an unbound stream.
	ErrStreamClosed = errors.New("compositor: stream closed")
)

// Surface is the shared drawing target for the recording path. The
// compositing tick is its only writer; an encoder stream is its only
// reader. The mutex exists because the reader lives on another goroutine.
type Surface struct {
	mu     sync.Mutex
	img    *image.RGBA
	stream *Stream
}

// NewSurface returns a surface of w x h pixels.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	return s
}

// Bounds returns the current pixel rectangle.
func (s *Surface) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img.Rect
}

// Resize reallocates the buffer. It fails while a stream is bound because
// an in-flight stream cannot follow a dimension change.
func (s *Surface) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("compositor: invalid surface size %dx%d", w, h)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return ErrSurfaceBound
	}
	if s.img.Rect.Dx() == w && s.img.Rect.Dy() == h {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Bind attaches a live stream sampling the surface at fps frames per
// second. Only one stream may be bound at a time.
func (s *Surface) Bind(fps int) (*Stream, error) {
	if fps <= 0 {
		fps = 30
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return nil, ErrSurfaceBound
	}
	st := &Stream{surface: s, rect: s.img.Rect, fps: fps}
	s.stream = st
	return st, nil
}

// draw runs fn with exclusive access to the pixel buffer.
func (s *Surface) draw(fn func(dst *image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.img)
}

// Stream is a fixed-size view of a Surface consumed by an encoder.
type Stream struct {
	surface *Surface
	rect    image.Rectangle
	fps     int
	closed  bool

	// last holds the pixels at Close until one final read drains them.
	last []byte
}

// Width and Height are fixed at bind time.
func (st *Stream) Width() int  { return st.rect.Dx() }
func (st *Stream) Height() int { return st.rect.Dy() }
func (st *Stream) FPS() int    { return st.fps }

// FrameSize is the number of bytes in one RGBA frame.
func (st *Stream) FrameSize() int { return st.rect.Dx() * st.rect.Dy() * 4 }

// ReadFrame copies the current surface pixels into dst, which must hold at
// least FrameSize bytes. After Close it returns the frame captured at close
// exactly once, then ErrStreamClosed.
func (st *Stream) ReadFrame(dst []byte) error {
	s := st.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.closed && st.last == nil {
		return ErrStreamClosed
	}
	size := st.FrameSize()
	if len(dst) < size {
		return fmt.Errorf("compositor: frame buffer too small (%d < %d)", len(dst), size)
	}
	if st.closed {
		copy(dst, st.last)
		lastFrames.put(st.last)
		st.last = nil
		return nil
	}
	copy(dst, s.img.Pix[:size])
	return nil
}

// Close unbinds the stream, freeing the surface for a resize or a new
// bind. The pixels drawn so far stay readable once. Safe to call more
// than once.
func (st *Stream) Close() {
	s := st.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.closed {
		return
	}
	st.closed = true
	size := st.FrameSize()
	if size > 0 && len(s.img.Pix) >= size {
		st.last = lastFrames.get(size)
		copy(st.last, s.img.Pix[:size])
	}
	if s.stream == st {
		s.stream = nil
	}
}
