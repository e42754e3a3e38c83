package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/arcap-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	logger *slog.Logger

	// Subviews
	Clock       ClockPanel
	CapturePrev CapturePreview

	// Widgets
	StateLabel   *LabelWidget
	ActionButton *ButtonWidget
	Banner       *LabelWidget
}

// UI abstracts the subset of view operations needed by presenters.
type UI interface {
	SetStateLabel(text string)
	SetRecording(recording bool)
	SetClock(elapsed, total time.Duration)
	SetNotification(msg string, visible bool)
	UpdatePreview(img image.Image)
}

var _ UI = (*RootView)(nil)

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout. onPress/onRelease receive the action
// button's mouse events; onExit closes the window.
func (rv *RootView) Build(onPress, onRelease, onExit func()) {
	if rv == nil {
		return
	}
	theme.InitStyles()

	// Row 0: clock, state label, exit
	rv.Clock = NewClockPanel(0, 0)
	rv.StateLabel = Label(Txt("State: idle"), Borderwidth(1), Relief("ridge"),
		Background(theme.ColorSurface), Foreground(theme.ColorText))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	exitBtn := Button(Txt("Exit"), Command(onExit))
	Grid(exitBtn, Row(0), Column(3), Sticky("e"), Padx("0.3m"), Pady("0.3m"))

	// Row 1: last capture
	rv.CapturePrev = NewCapturePreview(1, 4)

	// Row 2: notification banner, blank until needed
	rv.Banner = Label(Txt(""), Background(theme.ColorBg), Foreground(theme.ColorTextDark), Padx("2m"), Pady("1m"))
	Grid(rv.Banner, Row(2), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 3: the action button. Press/release are bound directly instead of
	// Command, which only fires on release.
	bg, active := theme.ActionColors(false)
	rv.ActionButton = Button(Txt("Tap for photo, hold for video"), Background(bg), Activebackground(active),
		Foreground(theme.ColorText), Padx("4m"), Pady("3m"))
	Grid(rv.ActionButton, Row(3), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.6m"))
	Bind(rv.ActionButton, "<ButtonPress-1>", Command(onPress))
	Bind(rv.ActionButton, "<ButtonRelease-1>", Command(onRelease))
	Bind(App, "<KeyPress-space>", Command(onPress))
	Bind(App, "<KeyRelease-space>", Command(onRelease))
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetRecording recolours the action button.
func (rv *RootView) SetRecording(recording bool) {
	if rv == nil || rv.ActionButton == nil {
		return
	}
	bg, active := theme.ActionColors(recording)
	txt := "Tap for photo, hold for video"
	if recording {
		txt = "Recording... release to stop"
	}
	rv.ActionButton.Configure(Txt(txt), Background(bg), Activebackground(active))
}

func (rv *RootView) SetClock(elapsed, total time.Duration) {
	if rv != nil && rv.Clock != nil {
		rv.Clock.SetClock(elapsed, total)
	}
}

// SetNotification shows msg in the banner or hides it.
func (rv *RootView) SetNotification(msg string, visible bool) {
	if rv == nil || rv.Banner == nil {
		return
	}
	if !visible {
		rv.Banner.Configure(Txt(""), Background(theme.ColorBg))
		return
	}
	rv.Banner.Configure(Txt(msg), Background(theme.ColorBanner))
}

// UpdatePreview proxies to the capture preview view.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdatePreview(img)
	}
}
