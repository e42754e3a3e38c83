package presenter

import (
	"sync"
	"time"

	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/ui/model"
)

// StateView reflects the machine state.
type StateView interface {
	SetStateLabel(string)
	SetRecording(bool)
}

// StatePresenter receives machine transitions and updates the view on the
// next Tick.
type StatePresenter struct {
	rec  *model.RecordingModel
	view StateView

	mu      sync.Mutex
	pending []capture.State

	latest  capture.State
	applied bool
}

func NewStatePresenter(rec *model.RecordingModel, view StateView) *StatePresenter {
	return &StatePresenter{rec: rec, view: view}
}

// OnState is registered as a machine listener; it runs on the machine's
// loop goroutine.
func (p *StatePresenter) OnState(prev, next capture.State) {
	if p == nil {
		return
	}
	p.rec.SetRecording(next == capture.StateRecording)
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick flushes the most recent queued state to the view.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	var (
		last capture.State
		have bool
	)
	if n := len(p.pending); n > 0 {
		last, have = p.pending[n-1], true
		p.pending = p.pending[:0]
	}
	p.mu.Unlock()
	if !p.applied {
		// first tick paints the initial state
		have = true
		if last == 0 {
			last = capture.StateIdle
		}
	}
	if !have || (p.applied && last == p.latest) {
		return
	}
	p.applied = true
	p.latest = last
	p.view.SetStateLabel("State: " + last.String())
	p.view.SetRecording(last == capture.StateRecording)
}
