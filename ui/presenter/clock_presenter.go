package presenter

import (
	"time"

	"github.com/soocke/arcap-go/ui/model"
)

// RecordingSource reports whether a recording is in progress.
type RecordingSource interface{ Recording() bool }

// ClockView displays the recording clock.
type ClockView interface {
	SetClock(elapsed, total time.Duration)
}

// ClockPresenter advances the clock model and pushes values to the view.
type ClockPresenter struct {
	clock *model.ClockModel
	src   RecordingSource
	view  ClockView
}

func NewClockPresenter(clock *model.ClockModel, src RecordingSource, view ClockView) *ClockPresenter {
	return &ClockPresenter{clock: clock, src: src, view: view}
}

func (p *ClockPresenter) Tick(now time.Time) {
	if p == nil || p.clock == nil || p.src == nil || p.view == nil {
		return
	}
	p.clock.OnTick(p.src.Recording(), now)
	e, t := p.clock.Values()
	p.view.SetClock(e, t)
}
