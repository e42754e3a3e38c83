// Package scene provides the overlay drawn on top of the camera feed.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
)

// Overlay is a transparent RGBA layer re-rendered on demand. Without a
// source image it draws an animated reticle.
type Overlay struct {
	mu     sync.Mutex
	base   image.Image
	w, h   int
	frame  image.Image
	phase  int
	colour color.NRGBA
}

// NewReticle returns a scene of w x h drawing a reticle.
func NewReticle(w, h int) *Overlay {
	if w <= 0 || h <= 0 {
		w, h = 1280, 720
	}
	o := &Overlay{w: w, h: h, colour: color.NRGBA{R: 0, G: 230, B: 118, A: 220}}
	_ = o.Render()
	return o
}

// LoadOverlay returns a scene that always shows the image at path.
func LoadOverlay(path string) (*Overlay, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load overlay %s: %w", path, err)
	}
	b := img.Bounds()
	o := &Overlay{base: img, w: b.Dx(), h: b.Dy()}
	_ = o.Render()
	return o, nil
}

// Render redraws the layer. Reticle scenes advance their animation.
func (o *Overlay) Render() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.base != nil {
		o.frame = imaging.Clone(o.base)
		return nil
	}
	o.phase++
	o.frame = drawReticle(o.w, o.h, o.phase, o.colour)
	return nil
}

// Frame returns the last rendered layer.
func (o *Overlay) Frame() image.Image {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frame
}

func drawReticle(w, h, phase int, c color.NRGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	r := math.Min(cx, cy) / 3
	thick := math.Max(1.5, r/40)
	rgba := color.RGBA{
		R: uint8(uint16(c.R) * uint16(c.A) / 255),
		G: uint8(uint16(c.G) * uint16(c.A) / 255),
		B: uint8(uint16(c.B) * uint16(c.A) / 255),
		A: c.A,
	}
	// ring with a rotating gap
	gap := float64(phase%36) * math.Pi / 18
	for y := int(cy - r - thick); y <= int(cy+r+thick); y++ {
		for x := int(cx - r - thick); x <= int(cx+r+thick); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Hypot(dx, dy)
			if math.Abs(d-r) > thick {
				continue
			}
			a := math.Atan2(dy, dx) + math.Pi
			if math.Abs(math.Mod(a-gap+2*math.Pi, 2*math.Pi)) < 0.3 {
				continue
			}
			img.SetRGBA(x, y, rgba)
		}
	}
	arm := int(r / 2)
	t := int(thick)
	for i := -arm; i <= arm; i++ {
		for j := -t; j <= t; j++ {
			img.SetRGBA(int(cx)+i, int(cy)+j, rgba)
			img.SetRGBA(int(cx)+j, int(cy)+i, rgba)
		}
	}
	return img
}
