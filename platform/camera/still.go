package camera

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Still is a camera whose stream is a single decoded image, used by the
// snap command to composite a photo against a file.
type Still struct {
	img image.Image
}

// NewStill wraps img. A nil image yields an inactive camera.
func NewStill(img image.Image) *Still { return &Still{img: img} }

// LoadStill decodes an image file, applying the EXIF orientation camera
// JPEGs carry.
func LoadStill(path string) (*Still, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("camera: load %s: %w", path, err)
	}
	return NewStill(img), nil
}

func (s *Still) Active() bool { return s.img != nil }

func (s *Still) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Still) Frame() image.Image { return s.img }
