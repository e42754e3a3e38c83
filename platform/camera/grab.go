package camera

import (
	"image"

	"github.com/vova616/screenshot"
)

// Grabber captures a region of the display; an empty rectangle means the
// whole screen.
type Grabber func(r image.Rectangle) (*image.RGBA, error)

// GrabScreen captures the primary display or the given region of it.
func GrabScreen(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return screenshot.CaptureScreen()
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	return screenshot.CaptureRect(r.Intersect(screen))
}
