package model

import (
	"sync/atomic"
)

// RecordingModel mirrors the capture machine's state for the UI. The zero
// value is idle and usable. Listener callbacks run on the machine's loop
// while presenters read on the Tk thread, hence the atomic.
type RecordingModel struct{ recording atomic.Bool }

// Recording reports whether a recording is in progress.
func (m *RecordingModel) Recording() bool {
	if m == nil {
		return false
	}
	return m.recording.Load()
}

// SetRecording stores the flag and reports whether it changed.
func (m *RecordingModel) SetRecording(b bool) bool {
	if m == nil {
		return false
	}
	return m.recording.Swap(b) != b
}
