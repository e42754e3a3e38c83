package presenter

import (
	"image"
	"sync"
)

// PreviewView displays the most recent capture.
type PreviewView interface {
	UpdatePreview(img image.Image)
}

// PreviewPresenter hands the latest offered image to the view once.
type PreviewPresenter struct {
	view PreviewView

	mu     sync.Mutex
	latest image.Image
	dirty  bool
}

func NewPreviewPresenter(view PreviewView) *PreviewPresenter {
	return &PreviewPresenter{view: view}
}

// Offer may be called from any goroutine.
func (p *PreviewPresenter) Offer(img image.Image) {
	if p == nil || img == nil {
		return
	}
	p.mu.Lock()
	p.latest, p.dirty = img, true
	p.mu.Unlock()
}

func (p *PreviewPresenter) Flush() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	img, dirty := p.latest, p.dirty
	p.dirty = false
	p.mu.Unlock()
	if dirty {
		p.view.UpdatePreview(img)
	}
}
