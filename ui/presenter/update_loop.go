package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/Flush on the sub-presenters and invokes a scheduler
// callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	State        *StatePresenter
	Clock        *ClockPresenter
	Notification *NotificationPresenter
	Preview      *PreviewPresenter
	Schedule     func()
	Now          func() time.Time
}

func NewLoop(state *StatePresenter, clock *ClockPresenter, note *NotificationPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{State: state, Clock: clock, Notification: note, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	// Reschedule first so a panicking presenter does not stop the loop.
	if l.Schedule != nil {
		l.Schedule()
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Clock != nil {
		l.Clock.Tick(now)
	}
	if l.Notification != nil {
		l.Notification.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.Flush()
	}
}
