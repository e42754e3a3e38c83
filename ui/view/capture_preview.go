package view

import (
	"image"

	"github.com/soocke/arcap-go/ui/images"
	"github.com/soocke/arcap-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the last captured still.
type CapturePreview interface {
	UpdatePreview(img image.Image)
	Reset()
}

type capturePreview struct {
	label     *LabelWidget
	prevPhoto *Img // disposed before replacement so old pixel data is freed
}

const (
	maxPreviewW = 400
	maxPreviewH = 225
)

// NewCapturePreview creates the preview label spanning cols columns at row.
func NewCapturePreview(row, cols int) CapturePreview {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(maxPreviewW, maxPreviewH))))
	lbl := Label(Image(photo), Borderwidth(1), Relief("sunken"), Background(theme.ColorSurface))
	Grid(lbl, Row(row), Column(0), Columnspan(cols), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return &capturePreview{label: lbl, prevPhoto: photo}
}

func (v *capturePreview) UpdatePreview(img image.Image) {
	if v.label == nil || img == nil {
		return
	}
	v.swap(images.EncodePNG(images.ScaleToFit(img, maxPreviewW, maxPreviewH)))
}

func (v *capturePreview) Reset() {
	v.swap(images.EncodePNG(images.Placeholder(maxPreviewW, maxPreviewH)))
}

func (v *capturePreview) swap(pngBytes []byte) {
	if v.label == nil || len(pngBytes) == 0 {
		return
	}
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
