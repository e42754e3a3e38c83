package capture

import (
	"context"
	"errors"
	"image"

	"github.com/soocke/arcap-go/domain/compositor"
	"github.com/soocke/arcap-go/domain/media"
)

// ErrSourceUnavailable means no camera-backed source was found when a
// capture was requested.
var ErrSourceUnavailable = errors.New("capture: camera source unavailable")

// State enumerates the recording lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// StateListener is called on each state transition from the event loop.
type StateListener func(prev, next State)

// Session is the transient bookkeeping of one capture. It is owned by the
// machine's event loop and never shared.
type Session struct {
	Kind   media.Kind
	Active bool
	Chunks [][]byte
}

// Bytes concatenates the accumulated chunks in delivery order.
func (s *Session) Bytes() []byte {
	n := 0
	for _, c := range s.Chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range s.Chunks {
		out = append(out, c...)
	}
	return out
}

// Scene is the AR engine: a drawable surface plus a way to force a fresh
// render before a still is taken.
type Scene interface {
	Render() error
	Frame() image.Image
}

// Camera is a live, camera-backed video source.
type Camera interface {
	// Active reports whether the source is backed by a live stream.
	Active() bool
	// Size is the native resolution; zero when unknown.
	Size() (w, h int)
	// Frame returns the latest frame or nil.
	Frame() image.Image
}

// PhotoCamera is implemented by cameras offering a dedicated
// high-resolution still capture.
type PhotoCamera interface {
	TakePhoto(ctx context.Context) (image.Image, error)
}

// CameraFinder locates the current camera source; nil means none.
type CameraFinder func() Camera

// EncoderCallbacks deliver encoder output. OnData may be called from any
// goroutine; OnStop is called exactly once after the last OnData.
type EncoderCallbacks struct {
	OnData func([]byte)
	OnStop func(error)
}

// Encoder opens an encoding session bound to a surface stream.
type Encoder interface {
	Open(stream *compositor.Stream, cb EncoderCallbacks) (EncodingSession, error)
}

// EncodingSession is a single recording. Stop returns immediately; the
// encoder finalises asynchronously and then calls OnStop.
type EncodingSession interface {
	Start() error
	Stop()
	MIMEType() string
}

// Persister delivers a finished artifact to the user.
type Persister interface {
	Persist(ctx context.Context, a media.Artifact) error
}

// Notifier shows a transient user-visible message.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (fn NotifierFunc) Notify(msg string) { fn(msg) }
