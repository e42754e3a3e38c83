package presenter

import (
	"sync"
	"time"
)

// DefaultPressThreshold separates a tap (photo) from a hold (video).
const DefaultPressThreshold = 500 * time.Millisecond

// Recorder is the capture machine surface driven by the action button.
type Recorder interface {
	StartRecording()
	StopRecording()
	TakePhoto()
	// StopOrTakePhoto stops an active recording, or takes a photo when
	// none is running, decided in order with earlier commands.
	StopOrTakePhoto()
}

// AfterFunc schedules f after d and returns a cancel function.
type AfterFunc func(d time.Duration, f func()) (cancel func() bool)

func timeAfter(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// GesturePresenter turns press/release of the action button into capture
// commands. Holding past the threshold starts recording at that moment;
// releasing afterwards stops it, or takes a photo if the start failed.
// Releasing earlier takes a photo.
type GesturePresenter struct {
	rec       Recorder
	threshold time.Duration
	after     AfterFunc

	mu        sync.Mutex
	pressed   bool
	longFired bool
	gen       uint64
	cancel    func() bool
}

func NewGesturePresenter(rec Recorder, threshold time.Duration, after AfterFunc) *GesturePresenter {
	if threshold <= 0 {
		threshold = DefaultPressThreshold
	}
	if after == nil {
		after = timeAfter
	}
	return &GesturePresenter{rec: rec, threshold: threshold, after: after}
}

// Press arms the hold timer. Repeated presses without a release are
// ignored.
func (p *GesturePresenter) Press() {
	if p == nil || p.rec == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pressed {
		return
	}
	p.pressed = true
	p.longFired = false
	p.gen++
	gen := p.gen
	p.cancel = p.after(p.threshold, func() { p.fire(gen) })
}

// fire holds the lock while starting so a racing Release cannot enqueue
// its stop ahead of the start.
func (p *GesturePresenter) fire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pressed || p.gen != gen {
		return
	}
	p.longFired = true
	p.rec.StartRecording()
}

// Release resolves the gesture.
func (p *GesturePresenter) Release() {
	if p == nil || p.rec == nil {
		return
	}
	p.mu.Lock()
	if !p.pressed {
		p.mu.Unlock()
		return
	}
	p.pressed = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	long := p.longFired
	p.mu.Unlock()

	if long {
		p.rec.StopOrTakePhoto()
		return
	}
	p.rec.TakePhoto()
}
