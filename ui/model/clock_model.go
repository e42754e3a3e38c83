package model

import (
	"time"
)

// ClockModel tracks the running recording's duration plus totals across
// recordings. Presenters poll Values() and update views. The zero value is
// ready to use.
type ClockModel struct {
	active     bool
	start      time.Time
	elapsed    time.Duration
	total      time.Duration
	recordings int
}

// NewClockModel returns a pointer to a ready-to-use ClockModel.
func NewClockModel() *ClockModel { return &ClockModel{} }

// OnTick advances the clock from the recording flag at now.
func (m *ClockModel) OnTick(recording bool, now time.Time) {
	if m == nil {
		return
	}
	if recording {
		if !m.active { // idle -> recording
			m.active = true
			m.start = now
			m.elapsed = 0
			m.recordings++
		}
		m.elapsed = now.Sub(m.start)
	} else if m.active { // recording -> idle
		m.elapsed = now.Sub(m.start)
		m.total += m.elapsed
		m.active = false
	}
}

// Values returns the current (or last) recording's length and the total
// recorded time including the ongoing recording.
func (m *ClockModel) Values() (elapsed, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	elapsed = m.elapsed
	total = m.total
	if m.active {
		total += elapsed
	}
	return
}

// Recordings counts how many recordings the clock has seen start.
func (m *ClockModel) Recordings() int {
	if m == nil {
		return 0
	}
	return m.recordings
}
