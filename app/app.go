package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/arcap-go/config"
	"github.com/soocke/arcap-go/debug"
	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/platform/camera"
)

const tick = 50 * time.Millisecond

type app struct {
	title   string
	width   int
	height  int
	config  *config.Config
	logger  *slog.Logger
	c       *AppContainer
	afterID string
}

func NewApp(title string, width, height int, cfg *config.Config, logger *slog.Logger) *app {
	return &app{title: title, width: width, height: height, config: cfg, logger: logger}
}

// Start builds the container and window, then blocks in the Tk event loop.
func (a *app) Start() error {
	cam := camera.NewScreen(a.logger, nil, a.config.Selection(), time.Second/time.Duration(a.config.FPS))
	c, err := BuildContainer(a.config, a.logger, nil, cam)
	if err != nil {
		return err
	}
	a.c = c
	defer c.Close()
	cam.Start()

	if a.config.Debug {
		stop := debug.StartGoroutineLogger(10*time.Second, a.logger, c.Pipeline.Machine.Stats)
		defer stop()
	}

	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))

	c.RootView.Build(c.Gesture.Press, c.Gesture.Release, a.exitHandler)
	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()

	App.Wait()
	return nil
}

// update runs one presenter pass. A panic anywhere in it becomes a banner
// message instead of tearing down the Tk loop.
func (a *app) update() {
	defer func() {
		if r := recover(); r != nil {
			msg := capture.PanicMessage(r)
			if a.logger != nil {
				a.logger.Error("ui tick panic", "error", r)
			}
			a.c.Notification.Notify(msg)
		}
	}()
	a.c.Loop.Tick()
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps updates on Tk's event loop thread.
	a.afterID = TclAfter(tick, a.update)
}
