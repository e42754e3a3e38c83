package theme

// Palette and style initialisation for the capture window.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#0f172a"
	ColorSurface   = "#1e293b"
	ColorPrimary   = "#2563eb" // idle action button
	ColorPrimaryHi = "#1d4ed8"
	ColorDanger    = "#dc2626" // recording action button
	ColorDangerHi  = "#b91c1c"
	ColorBanner    = "#f59e0b"
	ColorText      = "#f1f5f9"
	ColorTextDark  = "#111827"
	ColorTextMuted = "#94a3b8"
)

// ActionColors returns background and active-background for the action
// button in the given state.
func ActionColors(recording bool) (bg, active string) {
	if recording {
		return ColorDanger, ColorDangerHi
	}
	return ColorPrimary, ColorPrimaryHi
}

// InitStyles activates the base theme and window background.
func InitStyles() {
	_ = ActivateTheme("azure dark")
	App.Configure(Background(ColorBg))
}
