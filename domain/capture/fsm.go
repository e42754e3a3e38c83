package capture

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/arcap-go/domain/compositor"
	"github.com/soocke/arcap-go/domain/media"
)

const (
	defaultFPS            = 30
	defaultFallbackWidth  = 1280
	defaultFallbackHeight = 720
	defaultCloseTimeout   = 5 * time.Second
)

// Options wires the machine to its collaborators. Camera, Scene, Encoder
// and Persister are required; the rest default sensibly.
type Options struct {
	Camera     CameraFinder
	Scene      Scene
	Encoder    Encoder
	Persister  Persister
	Notifier   Notifier
	Compositor *compositor.Compositor

	FPS            int
	FallbackWidth  int
	FallbackHeight int
	Now            func() time.Time

	// CloseTimeout bounds how long Close waits for a stopped recording to
	// finalise and for in-flight persistence before giving up.
	CloseTimeout time.Duration
}

// Machine owns the Idle/Recording state, the composite-and-encode loop and
// still captures. All state lives on a single event-loop goroutine; the
// public methods only enqueue events.
type Machine struct {
	state  atomic.Int32
	logger *slog.Logger
	opts   Options

	surface *compositor.Surface
	rec     *recording
	tick    *time.Timer
	closing bool

	// pending holds recordings whose encoder has not reported completion.
	pending map[*recording]struct{}

	events    chan interface{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	listeners []StateListener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	stats  counters
}

type recording struct {
	session *Session
	enc     EncodingSession
	stream  *compositor.Stream
	cam     Camera

	// finished is set once the final frame has been handed to the encoder.
	finished bool
}

// events
type (
	evtStart       struct{}
	evtStop        struct{}
	evtPhoto       struct{}
	evtStopOrPhoto struct{}
	evtTick        struct{ rec *recording }
	evtChunk       struct {
		rec  *recording
		data []byte
	}
	evtEncoderDone struct {
		rec *recording
		err error
	}
	evtAddListener struct{ l StateListener }
)

// NewMachine constructs the machine and starts its event loop.
func NewMachine(logger *slog.Logger, opts Options) *Machine {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.FallbackWidth <= 0 || opts.FallbackHeight <= 0 {
		opts.FallbackWidth, opts.FallbackHeight = defaultFallbackWidth, defaultFallbackHeight
	}
	if opts.CloseTimeout <= 0 {
		opts.CloseTimeout = defaultCloseTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Compositor == nil {
		opts.Compositor = &compositor.Compositor{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		logger:  logger,
		opts:    opts,
		surface: compositor.NewSurface(opts.FallbackWidth, opts.FallbackHeight),
		pending: make(map[*recording]struct{}),
		events:  make(chan interface{}, 64),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	go m.loop()
	return m
}

func (m *Machine) loop() {
	defer close(m.done)
	for {
		select {
		case ev := <-m.events:
			m.dispatch(ev)
		case <-m.quit:
			m.shutdown()
			return
		}
	}
}

func (m *Machine) dispatch(ev interface{}) {
	defer func() {
		if r := recover(); r != nil {
			msg := PanicMessage(r)
			m.stats.failures.Add(1)
			if m.logger != nil {
				m.logger.Error("capture handler panic", "error", r, "message", msg)
			}
			m.notify(msg)
		}
	}()
	switch e := ev.(type) {
	case evtAddListener:
		m.listeners = append(m.listeners, e.l)
	case evtStart:
		m.handleStart()
	case evtStop:
		m.handleStop()
	case evtPhoto:
		m.handlePhoto()
	case evtStopOrPhoto:
		if m.rec != nil {
			m.handleStop()
		} else {
			m.handlePhoto()
		}
	case evtTick:
		m.handleTick(e.rec)
	case evtChunk:
		if len(e.data) > 0 {
			e.rec.session.Chunks = append(e.rec.session.Chunks, e.data)
			m.stats.chunks.Add(1)
			m.stats.bytes.Add(uint64(len(e.data)))
		}
	case evtEncoderDone:
		m.handleEncoderDone(e.rec, e.err)
	}
}

// send keeps accepting events after quit so shutdown can drain them; it
// only gives up once the loop has exited.
func (m *Machine) send(ev interface{}) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

func (m *Machine) transition(next State) {
	prev := State(m.state.Load())
	if prev == next {
		return
	}
	m.state.Store(int32(next))
	if m.logger != nil {
		m.logger.Debug("capture state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}

func (m *Machine) notify(msg string) {
	if m.opts.Notifier != nil {
		m.opts.Notifier.Notify(msg)
	}
}

func (m *Machine) findCamera() Camera {
	if m.opts.Camera == nil {
		return nil
	}
	return m.opts.Camera()
}

func (m *Machine) handleStart() {
	if m.closing {
		return
	}
	if State(m.state.Load()) == StateRecording {
		if m.logger != nil {
			m.logger.Debug("start ignored, already recording")
		}
		return
	}
	cam := m.findCamera()
	if cam == nil {
		m.fail("Error: AR video stream not found.", ErrSourceUnavailable)
		return
	}
	w, h := cam.Size()
	if w <= 0 || h <= 0 {
		w, h = m.opts.FallbackWidth, m.opts.FallbackHeight
	}
	if err := m.surface.Resize(w, h); err != nil {
		m.fail("Error: "+err.Error(), err)
		return
	}
	stream, err := m.surface.Bind(m.opts.FPS)
	if err != nil {
		m.fail("Error: "+err.Error(), err)
		return
	}
	rec := &recording{session: &Session{Kind: media.Video, Active: true}, stream: stream, cam: cam}
	enc, err := m.opts.Encoder.Open(stream, EncoderCallbacks{
		OnData: func(b []byte) {
			if len(b) == 0 {
				return
			}
			cp := make([]byte, len(b))
			copy(cp, b)
			m.send(evtChunk{rec: rec, data: cp})
		},
		OnStop: func(err error) { m.send(evtEncoderDone{rec: rec, err: err}) },
	})
	if err != nil {
		stream.Close()
		m.fail("Error: "+err.Error(), err)
		return
	}
	rec.enc = enc
	m.rec = rec
	m.transition(StateRecording)
	m.composite(rec)
	m.armTick(rec)
	if err := enc.Start(); err != nil {
		m.rec = nil
		rec.finished = true
		m.stopTick()
		stream.Close()
		m.transition(StateIdle)
		m.fail("Error: "+err.Error(), err)
		return
	}
	m.pending[rec] = struct{}{}
	m.stats.recordings.Add(1)
	if m.logger != nil {
		m.logger.Info("recording started", "width", w, "height", h, "fps", m.opts.FPS, "mime", enc.MIMEType())
	}
}

func (m *Machine) fail(msg string, err error) {
	m.stats.failures.Add(1)
	if m.logger != nil {
		m.logger.Error("capture failed", "error", err)
	}
	m.notify(msg)
}

// handleStop stops the encoder without waiting for it. The UI-facing state
// flips now; the artifact follows when the encoder reports completion.
func (m *Machine) handleStop() {
	rec := m.rec
	if rec == nil {
		return
	}
	m.rec = nil
	rec.session.Active = false
	m.finishRecording(rec)
	m.transition(StateIdle)
	if m.logger != nil {
		m.logger.Info("recording stop requested", "chunks", len(rec.session.Chunks))
	}
}

// finishRecording runs the tick that was armed when the stop arrived right
// away, so its frame is on the surface when the stream closes and the
// encoder drains it. The surface is free for the next recording afterwards.
func (m *Machine) finishRecording(rec *recording) {
	if rec.finished {
		return
	}
	rec.finished = true
	m.stopTick()
	m.composite(rec)
	rec.stream.Close()
	rec.enc.Stop()
}

func (m *Machine) armTick(rec *recording) {
	interval := time.Second / time.Duration(m.opts.FPS)
	m.tick = time.AfterFunc(interval, func() { m.send(evtTick{rec: rec}) })
}

func (m *Machine) stopTick() {
	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
}

// handleTick draws one frame and re-arms. A tick delivered after the
// recording finished is dropped; its frame was drawn by finishRecording.
func (m *Machine) handleTick(rec *recording) {
	if rec == nil || rec.finished {
		return
	}
	m.composite(rec)
	m.armTick(rec)
}

func (m *Machine) composite(rec *recording) {
	var overlay image.Image
	if m.opts.Scene != nil {
		overlay = m.opts.Scene.Frame()
	}
	m.opts.Compositor.CompositeFrame(rec.cam.Frame(), overlay, m.surface)
	m.stats.frames.Add(1)
}

func (m *Machine) handleEncoderDone(rec *recording, err error) {
	delete(m.pending, rec)
	if m.rec == rec {
		// encoder ended on its own
		m.rec = nil
		rec.finished = true
		m.stopTick()
		rec.stream.Close()
		m.transition(StateIdle)
	}
	if err != nil && len(rec.session.Chunks) == 0 {
		m.fail("Error: "+err.Error(), err)
		return
	}
	if err != nil && m.logger != nil {
		m.logger.Warn("encoder finished with error, keeping partial recording", "error", err)
	}
	mime := rec.enc.MIMEType()
	if mime == "" {
		mime = media.MIMEMP4
	}
	art := media.Artifact{
		Bytes:    rec.session.Bytes(),
		MIMEType: mime,
		Kind:     media.Video,
		Filename: media.VideoFilename(m.opts.Now(), mime),
	}
	rec.session.Chunks = nil
	m.stats.videos.Add(1)
	m.persist(art)
}

// handlePhoto implicitly stops an active recording, then snapshots the
// scene on the loop and finishes the still on a worker goroutine.
func (m *Machine) handlePhoto() {
	m.handleStop()
	cam := m.findCamera()
	if cam == nil || !cam.Active() {
		m.fail("Error creating screenshot: Camera stream not found", ErrSourceUnavailable)
		return
	}
	var overlay image.Image
	if m.opts.Scene != nil {
		if err := m.opts.Scene.Render(); err != nil && m.logger != nil {
			m.logger.Warn("scene render failed", "error", err)
		}
		overlay = compositor.CopyImage(m.opts.Scene.Frame())
	}
	live := cam.Frame()
	taken := m.opts.Now()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer recoverLog(m.logger, "photo goroutine panic")
		m.finishPhoto(cam, live, overlay, taken)
	}()
}

func (m *Machine) finishPhoto(cam Camera, live, overlay image.Image, taken time.Time) {
	var bg image.Image
	if pc, ok := cam.(PhotoCamera); ok {
		if img, err := pc.TakePhoto(m.ctx); err == nil && img != nil {
			bg = img
		} else if m.logger != nil {
			m.logger.Debug("high resolution photo unavailable, using live frame", "error", err)
		}
	}
	if bg == nil {
		bg = live
	}
	if bg == nil {
		bg = compositor.Blank(m.opts.FallbackWidth, m.opts.FallbackHeight)
	}
	out := m.opts.Compositor.CompositeStill(bg, overlay)
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		m.fail("Error creating screenshot: "+err.Error(), err)
		return
	}
	m.stats.photos.Add(1)
	m.persist(media.Artifact{
		Bytes:    buf.Bytes(),
		MIMEType: media.MIMEPNG,
		Kind:     media.Photo,
		Filename: media.PhotoFilename(taken),
	})
}

func (m *Machine) persist(a media.Artifact) {
	if m.opts.Persister == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer recoverLog(m.logger, "persist goroutine panic")
		if err := m.opts.Persister.Persist(m.ctx, a); err != nil {
			m.stats.failures.Add(1)
			if m.logger != nil {
				m.logger.Warn("artifact not persisted", "file", a.Filename, "error", err)
			}
			m.notify("Could not save " + a.Filename)
			return
		}
		if m.logger != nil {
			m.logger.Info("artifact persisted", "file", a.Filename, "kind", a.Kind.String(), "bytes", a.Size())
		}
	}()
}

// shutdown handles what was queued before Close, stops an active
// recording and waits for outstanding encoders to deliver their video.
func (m *Machine) shutdown() {
	m.closing = true
	for drained := false; !drained; {
		select {
		case ev := <-m.events:
			m.dispatch(ev)
		default:
			drained = true
		}
	}
	m.handleStop()

	if len(m.pending) == 0 {
		return
	}
	deadline := time.NewTimer(m.opts.CloseTimeout)
	defer deadline.Stop()
	for len(m.pending) > 0 {
		select {
		case ev := <-m.events:
			m.dispatch(ev)
		case <-deadline.C:
			if m.logger != nil {
				m.logger.Warn("recording not finalised before close", "pending", len(m.pending))
			}
			return
		}
	}
}

// Public API

func (m *Machine) AddListener(l StateListener) { m.send(evtAddListener{l: l}) }
func (m *Machine) StartRecording()             { m.send(evtStart{}) }
func (m *Machine) StopRecording()              { m.send(evtStop{}) }
func (m *Machine) TakePhoto()                  { m.send(evtPhoto{}) }
func (m *Machine) StopOrTakePhoto()            { m.send(evtStopOrPhoto{}) }
func (m *Machine) State() State                { return State(m.state.Load()) }
func (m *Machine) Recording() bool             { return m.State() == StateRecording }
func (m *Machine) Stats() Stats                { return m.stats.snapshot() }

// Close stops the loop after the events already queued, stops an active
// recording and waits for its video and for in-flight photo and persistence
// work. Work still running after CloseTimeout has its context cancelled.
func (m *Machine) Close() {
	m.closeOnce.Do(func() {
		close(m.quit)
		<-m.done
		idle := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(idle)
		}()
		timer := time.NewTimer(m.opts.CloseTimeout)
		defer timer.Stop()
		select {
		case <-idle:
		case <-timer.C:
			if m.logger != nil {
				m.logger.Warn("capture work still running at close, cancelling")
			}
		}
		m.cancel()
		<-idle
	})
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}
