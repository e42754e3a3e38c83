package compositor

import (
	"image"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Compositor flattens a background (camera frame or photo) and an AR
// overlay into one image. The zero value uses bilinear scaling.
type Compositor struct {
	Scaler xdraw.Scaler
}

// New returns a compositor using the named interpolator: "nearest",
// "bilinear" or "catmullrom". Unknown names fall back to bilinear.
func New(scaler string) *Compositor {
	return &Compositor{Scaler: ScalerByName(scaler)}
}

// ScalerByName resolves a config value to an x/image interpolator.
func ScalerByName(name string) xdraw.Scaler {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return xdraw.NearestNeighbor
	case "catmullrom":
		return xdraw.CatmullRom
	default:
		return xdraw.ApproxBiLinear
	}
}

func (c *Compositor) scaler() xdraw.Scaler {
	if c == nil || c.Scaler == nil {
		return xdraw.ApproxBiLinear
	}
	return c.Scaler
}

// CompositeStill sizes the output to the background's native resolution,
// copies the background at (0,0) and scales the overlay over the same
// rectangle. background must not be nil; overlay may be.
func (c *Compositor) CompositeStill(background, overlay image.Image) *image.RGBA {
	bb := background.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bb.Dx(), bb.Dy()))
	draw.Draw(out, out.Bounds(), background, bb.Min, draw.Src)
	c.drawOverlay(out, overlay)
	return out
}

// CompositeFrame draws video then overlay onto the surface at its current
// dimensions. Called once per tick while recording.
func (c *Compositor) CompositeFrame(video, overlay image.Image, s *Surface) {
	if s == nil {
		return
	}
	s.draw(func(dst *image.RGBA) {
		if video != nil {
			vb := video.Bounds()
			if vb.Eq(dst.Rect) {
				draw.Draw(dst, dst.Rect, video, vb.Min, draw.Src)
			} else {
				c.scaler().Scale(dst, dst.Rect, video, vb, draw.Src, nil)
			}
		}
		c.drawOverlay(dst, overlay)
	})
}

func (c *Compositor) drawOverlay(dst *image.RGBA, overlay image.Image) {
	if overlay == nil {
		return
	}
	ob := overlay.Bounds()
	if ob.Empty() {
		return
	}
	if ob.Dx() == dst.Rect.Dx() && ob.Dy() == dst.Rect.Dy() {
		draw.Draw(dst, dst.Rect, overlay, ob.Min, draw.Over)
		return
	}
	c.scaler().Scale(dst, dst.Rect, overlay, ob, draw.Over, nil)
}

// CopyImage returns an RGBA copy of src anchored at the origin. Used to
// freeze an overlay before it is redrawn by the engine.
func CopyImage(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// Blank returns an opaque black frame used when no camera pixels exist.
func Blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	return img
}
