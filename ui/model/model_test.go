package model

import (
	"testing"
	"time"
)

func TestClockModel_Lifecycle(t *testing.T) {
	m := NewClockModel()
	base := time.Unix(0, 0)

	// Record 0s..5s.
	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	elapsed, total := m.Values()
	if elapsed != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s/5s; got elapsed=%v total=%v", elapsed, total)
	}

	// Stop; values persist while idle.
	m.OnTick(false, base.Add(5*time.Second))
	m.OnTick(false, base.Add(7*time.Second))
	elapsed, total = m.Values()
	if elapsed != 5*time.Second || total != 5*time.Second {
		t.Fatalf("idle tick changed durations: elapsed=%v total=%v", elapsed, total)
	}

	// Second recording 10s..13s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	elapsed, total = m.Values()
	if elapsed != 3*time.Second || total != 8*time.Second {
		t.Fatalf("expected 3s/8s; got elapsed=%v total=%v", elapsed, total)
	}
	m.OnTick(false, base.Add(13*time.Second))
	if m.Recordings() != 2 {
		t.Fatalf("recordings = %d", m.Recordings())
	}
}

func TestClockModel_NilSafe(t *testing.T) {
	var m *ClockModel
	m.OnTick(true, time.Now())
	if e, tot := m.Values(); e != 0 || tot != 0 || m.Recordings() != 0 {
		t.Fatal("nil model should report zero")
	}
}

func TestRecordingModel(t *testing.T) {
	var m RecordingModel
	if m.Recording() {
		t.Fatal("zero value should be idle")
	}
	if !m.SetRecording(true) || m.SetRecording(true) {
		t.Fatal("change detection wrong")
	}
	if !m.Recording() {
		t.Fatal("expected recording")
	}
	var nilModel *RecordingModel
	if nilModel.SetRecording(true) || nilModel.Recording() {
		t.Fatal("nil model should be inert")
	}
}

func TestNotificationModel_HidesAfterExactly3000ms(t *testing.T) {
	m := NewNotificationModel(0)
	t0 := time.Unix(100, 0)
	m.Show("Error: AR video stream not found.", t0)

	if msg, ok := m.Visible(t0); !ok || msg != "Error: AR video stream not found." {
		t.Fatalf("expected visible at t0, got %q %v", msg, ok)
	}
	if _, ok := m.Visible(t0.Add(2999 * time.Millisecond)); !ok {
		t.Fatal("expected visible at 2999ms")
	}
	if _, ok := m.Visible(t0.Add(3000 * time.Millisecond)); ok {
		t.Fatal("expected hidden at 3000ms")
	}
}

func TestNotificationModel_NewMessageRestartsTimer(t *testing.T) {
	m := NewNotificationModel(time.Second)
	t0 := time.Unix(0, 0)
	m.Show("first", t0)
	m.Show("second", t0.Add(900*time.Millisecond))
	msg, ok := m.Visible(t0.Add(1500 * time.Millisecond))
	if !ok || msg != "second" {
		t.Fatalf("got %q %v", msg, ok)
	}
	var empty NotificationModel
	if _, ok := empty.Visible(t0); ok {
		t.Fatal("empty model should be hidden")
	}
}
