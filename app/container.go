package app

import (
	"log/slog"
	"time"

	"github.com/soocke/arcap-go/config"
	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/domain/media"
	"github.com/soocke/arcap-go/platform/camera"
	"github.com/soocke/arcap-go/platform/scene"
	"github.com/soocke/arcap-go/ui/images"
	"github.com/soocke/arcap-go/ui/model"
	"github.com/soocke/arcap-go/ui/presenter"
	"github.com/soocke/arcap-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Camera   *camera.Screen
	Pipeline *Pipeline

	Recording     *model.RecordingModel
	Clock         *model.ClockModel
	Notifications *model.NotificationModel
	RootView      *view.RootView
	UI            view.UI

	// Presenters
	Gesture      *presenter.GesturePresenter
	State        *presenter.StatePresenter
	ClockP       *presenter.ClockPresenter
	Notification *presenter.NotificationPresenter
	Preview      *presenter.PreviewPresenter
	Loop         *presenter.Loop
}

// BuildContainer constructs all non-Tk components. The view is created but
// not built; presenters are bound to ui, which defaults to the root view.
func BuildContainer(cfg *config.Config, logger *slog.Logger, ui view.UI, cam *camera.Screen) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger, Camera: cam}
	c.Recording = &model.RecordingModel{}
	c.Clock = model.NewClockModel()
	c.Notifications = model.NewNotificationModel(time.Duration(cfg.NotificationMs) * time.Millisecond)

	var sc capture.Scene
	if cfg.OverlayPath != "" {
		o, err := scene.LoadOverlay(cfg.OverlayPath)
		if err != nil {
			return nil, err
		}
		sc = o
	}
	p, err := NewPipeline(cfg, logger, Sources{Camera: c.findCamera, Scene: sc})
	if err != nil {
		return nil, err
	}
	c.Pipeline = p

	c.RootView = view.NewRootView(logger)
	c.UI = ui
	if c.UI == nil {
		c.UI = c.RootView
	}

	c.Notification = presenter.NewNotificationPresenter(c.Notifications, c.UI)
	c.State = presenter.NewStatePresenter(c.Recording, c.UI)
	c.ClockP = presenter.NewClockPresenter(c.Clock, c.Recording, c.UI)
	c.Preview = presenter.NewPreviewPresenter(c.UI)
	c.Gesture = presenter.NewGesturePresenter(p.Machine, time.Duration(cfg.PressThresholdMs)*time.Millisecond, nil)
	c.Loop = presenter.NewLoop(c.State, c.ClockP, c.Notification, c.Preview, nil)

	p.OnNotify(c.Notification.Notify)
	p.OnPersisted(c.onPersisted)
	p.Machine.AddListener(c.State.OnState)
	return c, nil
}

// findCamera reports the screen source only once it is producing frames.
func (c *AppContainer) findCamera() capture.Camera {
	if c.Camera == nil || !c.Camera.Active() {
		return nil
	}
	return c.Camera
}

func (c *AppContainer) onPersisted(a media.Artifact, err error) {
	if err != nil || a.Kind != media.Photo {
		return
	}
	if img := images.DecodePNG(a.Bytes); img != nil {
		c.Preview.Offer(img)
	}
}

// Close releases the pipeline and stops the camera.
func (c *AppContainer) Close() {
	if c.Camera != nil {
		c.Camera.Stop()
	}
	c.Pipeline.Close()
}
