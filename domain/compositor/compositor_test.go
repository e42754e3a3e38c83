package compositor

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestCompositeStill_OutputMatchesBackground(t *testing.T) {
	c := New("bilinear")
	bg := solid(64, 48, color.RGBA{R: 200, A: 255})
	for _, ov := range []image.Image{
		solid(10, 10, color.RGBA{G: 255, A: 255}),
		solid(640, 480, color.RGBA{B: 255, A: 255}),
		solid(64, 48, color.RGBA{}),
		nil,
	} {
		out := c.CompositeStill(bg, ov)
		if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 48 {
			t.Fatalf("expected 64x48, got %v", out.Bounds())
		}
	}
}

func TestCompositeStill_NonZeroOriginBackground(t *testing.T) {
	c := New("nearest")
	full := solid(100, 100, color.RGBA{R: 255, A: 255})
	sub := full.SubImage(image.Rect(20, 30, 60, 50))
	out := c.CompositeStill(sub, nil)
	if out.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Fatalf("background not copied: %v", got)
	}
}

func TestCompositeStill_TransparentOverlayKeepsBackground(t *testing.T) {
	c := New("nearest")
	bg := solid(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	ov := image.NewRGBA(image.Rect(0, 0, 4, 4))
	ov.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	out := c.CompositeStill(bg, ov)
	if got := out.RGBAAt(0, 0); got.G != 255 {
		t.Fatalf("opaque overlay pixel not scaled over background: %v", got)
	}
	if got := out.RGBAAt(7, 7); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("transparent overlay altered background: %v", got)
	}
}

func TestCompositeFrame_UsesSurfaceDimensions(t *testing.T) {
	c := New("nearest")
	s := NewSurface(32, 16)
	video := solid(320, 160, color.RGBA{B: 255, A: 255})
	c.CompositeFrame(video, solid(4, 4, color.RGBA{}), s)
	if s.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatalf("surface resized by compositing: %v", s.Bounds())
	}
	st, err := s.Bind(30)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer st.Close()
	buf := make([]byte, st.FrameSize())
	if err := st.ReadFrame(buf); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	frame := &image.RGBA{Pix: buf, Stride: 32 * 4, Rect: image.Rect(0, 0, 32, 16)}
	if got := frame.RGBAAt(31, 15); got.B != 255 {
		t.Fatalf("video not drawn: %v", got)
	}
}

func TestStream_LastFrameReadableOnceAfterClose(t *testing.T) {
	c := New("nearest")
	s := NewSurface(4, 2)
	st, err := s.Bind(30)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	c.CompositeFrame(solid(4, 2, color.RGBA{R: 200, A: 255}), nil, s)
	st.Close()

	// a new recording may draw before the old encoder drains its stream
	if err := s.Resize(8, 8); err != nil {
		t.Fatalf("resize after close: %v", err)
	}
	c.CompositeFrame(solid(8, 8, color.RGBA{G: 200, A: 255}), nil, s)

	buf := make([]byte, st.FrameSize())
	if err := st.ReadFrame(buf); err != nil {
		t.Fatalf("final read: %v", err)
	}
	if buf[0] != 200 || buf[1] != 0 || len(buf) != 4*2*4 {
		t.Fatalf("final read returned wrong pixels: %v", buf[:4])
	}
	if err := st.ReadFrame(buf); !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected ErrStreamClosed after final read, got %v", err)
	}
}

func TestSurface_ResizeRefusedWhileBound(t *testing.T) {
	s := NewSurface(4, 4)
	st, err := s.Bind(30)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := s.Resize(8, 8); !errors.Is(err, ErrSurfaceBound) {
		t.Fatalf("expected ErrSurfaceBound, got %v", err)
	}
	if _, err := s.Bind(30); !errors.Is(err, ErrSurfaceBound) {
		t.Fatalf("expected second bind to fail, got %v", err)
	}
	st.Close()
	st.Close()
	if err := s.Resize(8, 8); err != nil {
		t.Fatalf("resize after unbind: %v", err)
	}
	if s.Bounds().Dx() != 8 {
		t.Fatalf("resize not applied: %v", s.Bounds())
	}
	buf := make([]byte, st.FrameSize())
	if err := st.ReadFrame(buf); !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected ErrStreamClosed, got %v", err)
	}
}

func TestStream_DimensionsFixedAtBind(t *testing.T) {
	s := NewSurface(12, 6)
	st, _ := s.Bind(0)
	defer st.Close()
	if st.Width() != 12 || st.Height() != 6 || st.FPS() != 30 {
		t.Fatalf("unexpected stream geometry %dx%d@%d", st.Width(), st.Height(), st.FPS())
	}
	if err := st.ReadFrame(make([]byte, 10)); err == nil {
		t.Fatalf("expected short buffer error")
	}
}

func TestScalerByName(t *testing.T) {
	if ScalerByName("nearest") == nil || ScalerByName("CatmullRom") == nil || ScalerByName("???") == nil {
		t.Fatalf("scaler lookup returned nil")
	}
}
