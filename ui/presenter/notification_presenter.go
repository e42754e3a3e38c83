package presenter

import (
	"sync"
	"time"

	"github.com/soocke/arcap-go/ui/model"
)

// NotificationView shows or hides the banner.
type NotificationView interface {
	SetNotification(msg string, visible bool)
}

// NotificationPresenter accepts messages from any goroutine and reflects
// them on the banner during Tick.
type NotificationPresenter struct {
	model *model.NotificationModel
	view  NotificationView

	mu      sync.Mutex
	pending []string

	lastMsg     string
	lastVisible bool
}

func NewNotificationPresenter(m *model.NotificationModel, view NotificationView) *NotificationPresenter {
	return &NotificationPresenter{model: m, view: view}
}

// Notify queues msg; it satisfies capture.Notifier.
func (p *NotificationPresenter) Notify(msg string) {
	if p == nil || msg == "" {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, msg)
	p.mu.Unlock()
}

// Tick shows the newest queued message and hides the banner once its
// deadline passes.
func (p *NotificationPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil {
		return
	}
	p.mu.Lock()
	var latest string
	if n := len(p.pending); n > 0 {
		latest = p.pending[n-1]
		p.pending = p.pending[:0]
	}
	p.mu.Unlock()
	if latest != "" {
		p.model.Show(latest, now)
	}
	if p.view == nil {
		return
	}
	msg, visible := p.model.Visible(now)
	if latest == "" && msg == p.lastMsg && visible == p.lastVisible {
		return
	}
	p.lastMsg, p.lastVisible = msg, visible
	p.view.SetNotification(msg, visible)
}
