// Package camera provides camera sources for the capture machine: a live
// screen-backed source and a still image source for one-shot use.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const statsLogInterval = 5 * time.Second

// FrameSnapshot is the latest captured frame with capture metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Stats exposes capture loop instrumentation.
type Stats struct {
	Captures       uint64
	Skipped        uint64
	AvgCapture     time.Duration
	LastCapture    time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}

// Screen is a live source backed by periodic screen grabs. The latest frame
// is published atomically so the compositing tick never blocks on capture.
type Screen struct {
	grab     Grabber
	region   image.Rectangle
	interval time.Duration
	logger   *slog.Logger

	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

// NewScreen returns a source grabbing region (empty for full screen) every
// interval. A nil grab uses GrabScreen.
func NewScreen(logger *slog.Logger, grab Grabber, region image.Rectangle, interval time.Duration) *Screen {
	if grab == nil {
		grab = GrabScreen
	}
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Screen{grab: grab, region: region, interval: interval, logger: logger}
}

// Start begins the capture loop. Calling Start on a running source is a
// no-op.
func (s *Screen) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return
	}
	s.running.Store(true)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.quit, s.done)
}

// Stop ends the capture loop and waits for it. The last frame stays
// available but Active reports false.
func (s *Screen) Stop() {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return
	}
	s.running.Store(false)
	quit, done := s.quit, s.done
	s.mu.Unlock()
	close(quit)
	<-done
}

// Active reports whether the loop runs and has produced a frame.
func (s *Screen) Active() bool {
	return s.running.Load() && s.latest.Load() != nil
}

func (s *Screen) Size() (int, int) {
	snap := s.latest.Load()
	if snap == nil || snap.Image == nil {
		return 0, 0
	}
	b := snap.Image.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Screen) Frame() image.Image {
	snap := s.latest.Load()
	if snap == nil || snap.Image == nil {
		return nil
	}
	return snap.Image
}

// LatestFrame returns the freshest snapshot, or a zero value.
func (s *Screen) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

// TakePhoto grabs a fresh frame at the display's full resolution instead of
// reusing the loop's possibly stale one.
func (s *Screen) TakePhoto(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.grab(s.region)
	if err != nil {
		return nil, fmt.Errorf("camera: photo capture: %w", err)
	}
	if img == nil {
		return nil, errors.New("camera: photo capture returned no image")
	}
	return img, nil
}

func (s *Screen) Stats() Stats {
	captures := s.captures.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(s.captureNanos.Load() / captures)
	}
	snap := s.LatestFrame()
	var age time.Duration
	if !snap.CapturedAt.IsZero() {
		age = time.Since(snap.CapturedAt)
	}
	return Stats{
		Captures:       captures,
		Skipped:        s.skipped.Load(),
		AvgCapture:     avg,
		LastCapture:    snap.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snap.Sequence,
	}
}

func (s *Screen) loop(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()

	s.captureOnce()
	for {
		select {
		case <-quit:
			return
		case <-logTicker.C:
			s.logStats()
		case <-ticker.C:
			s.captureOnce()
		}
	}
}

func (s *Screen) captureOnce() {
	start := time.Now()
	img, err := s.grab(s.region)
	if err != nil || img == nil {
		s.skipped.Add(1)
		if err != nil && s.logger != nil {
			s.logger.Error("screen capture", "error", err)
		}
		return
	}
	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	seq := s.sequence.Add(1)
	s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})
}

func (s *Screen) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("camera.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
