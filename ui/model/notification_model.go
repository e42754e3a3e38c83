package model

import (
	"sync"
	"time"
)

// DefaultNotificationDuration is how long a banner stays visible.
const DefaultNotificationDuration = 3000 * time.Millisecond

// NotificationModel holds the banner message and its hide deadline. A new
// message replaces the current one and restarts the timer.
type NotificationModel struct {
	mu       sync.Mutex
	duration time.Duration
	message  string
	hideAt   time.Time
}

// NewNotificationModel returns a model hiding messages after d (default
// when d <= 0).
func NewNotificationModel(d time.Duration) *NotificationModel {
	if d <= 0 {
		d = DefaultNotificationDuration
	}
	return &NotificationModel{duration: d}
}

// Show displays msg from now until now+duration.
func (m *NotificationModel) Show(msg string, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.duration <= 0 {
		m.duration = DefaultNotificationDuration
	}
	m.message = msg
	m.hideAt = now.Add(m.duration)
}

// Visible returns the message and true while now is before the deadline.
func (m *NotificationModel) Visible(now time.Time) (string, bool) {
	if m == nil {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.message == "" || !now.Before(m.hideAt) {
		return "", false
	}
	return m.message, true
}
