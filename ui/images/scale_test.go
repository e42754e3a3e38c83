package images

import (
	"image"
	"testing"
)

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1600, 900))
	got := ScaleToFit(src, 400, 400)
	if b := got.Bounds(); b.Dx() != 400 || b.Dy() != 225 {
		t.Fatalf("bounds = %v", b)
	}
	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if ScaleToFit(small, 400, 225) != image.Image(small) {
		t.Fatal("fitting source should be returned as-is")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatal("nil in, nil out")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	data := EncodePNG(Placeholder(8, 6))
	img := DecodePNG(data)
	if img == nil || img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatal("decode failed")
	}
	if DecodePNG([]byte("nope")) != nil {
		t.Fatal("garbage should decode to nil")
	}
	if EncodePNG(nil) != nil {
		t.Fatal("nil image encodes to nil")
	}
}
